//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/urbanairlab/source-attribution/internal/adapter/csvfile"
	kafkaadapter "github.com/urbanairlab/source-attribution/internal/adapter/kafka"
	"github.com/urbanairlab/source-attribution/internal/config"
	"github.com/urbanairlab/source-attribution/internal/domain"
	"github.com/urbanairlab/source-attribution/internal/observability"
	"github.com/urbanairlab/source-attribution/internal/pipeline"
)

const testSinkTopic = "test-labeled-air-quality"

// inputCSV is a skewed sample: nine quiet rows and one industrial one, so a
// full run exercises the simulation path as well as the export.
const inputCSV = `location_id,latitude,longitude,timestamp,pm25,pm10,no2,co,so2,o3,humidity,season,roads_dist_km,industrial_zones_dist_km,agricultural_fields_dist_km
st-01,28.61,77.21,2026-05-01T10:00:00Z,10,15,20,0.4,5,30,65,winter,4.0,6.0,8.0
st-02,28.62,77.22,2026-05-01T10:00:00Z,12,18,22,0.5,6,28,60,winter,3.5,5.5,7.0
st-03,28.63,77.23,2026-05-01T10:00:00Z,9,14,19,0.3,4,32,70,winter,4.2,6.1,8.2
st-04,28.64,77.24,2026-05-01T10:00:00Z,11,16,21,0.4,5,31,66,winter,3.9,5.9,7.9
st-05,28.65,77.25,2026-05-01T10:00:00Z,10,15,20,0.4,5,30,64,winter,4.1,6.2,8.1
st-06,28.66,77.26,2026-05-01T10:00:00Z,13,19,23,0.5,7,27,62,winter,3.7,5.6,7.4
st-07,28.67,77.27,2026-05-01T10:00:00Z,8,13,18,0.3,4,33,71,winter,4.4,6.4,8.4
st-08,28.68,77.28,2026-05-01T10:00:00Z,10,15,20,0.4,5,30,63,winter,4.0,6.0,8.0
st-09,28.69,77.29,2026-05-01T10:00:00Z,11,17,21,0.4,6,29,67,winter,3.8,5.8,7.7
st-10,28.70,77.30,2026-05-01T10:00:00Z,55,70,40,0.8,70,25,55,winter,2.5,0.4,6.0
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// labeledMessage holds a deserialized message read from the sink topic.
type labeledMessage struct {
	Event   domain.LabeledEvent
	Key     string
	Headers map[string]string
}

func readLabeled(ctx context.Context, t *testing.T, consumer *kafkago.Reader) labeledMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.LabeledEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal sink message")

	return labeledMessage{Event: event, Key: string(msg.Key), Headers: headers}
}

// TestPipelineExportEndToEnd runs the full pipeline against real Kafka: CSV
// in, labeled CSV plus one sink message per row (real and simulated) out.
func TestPipelineExportEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "processed_data.csv")
	labeledPath := filepath.Join(dir, "labeled_data.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(inputCSV), 0o644))

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}

	const classMin = 3
	rules := domain.DefaultRules()
	thresholds := domain.DefaultThresholds()
	metrics := observability.NewMetricsForTesting()

	exporter := kafkaadapter.NewExporter(cfg, discardLogger(), metrics)
	t.Cleanup(func() { _ = exporter.Close() })

	p := pipeline.New(
		csvfile.NewReader(inputPath, discardLogger()),
		pipeline.NewLabeler(rules, thresholds),
		pipeline.NewRebalancer(rules, thresholds, 0.8, classMin, 100, 42, discardLogger()),
		[]pipeline.TableLoader{csvfile.NewWriter(labeledPath, discardLogger()), exporter},
		discardLogger(), metrics,
	)
	require.NoError(t, p.Run(ctx))

	// The labeled file exists and grew past the ten real rows.
	labeled, err := os.ReadFile(labeledPath)
	require.NoError(t, err)
	assert.Contains(t, string(labeled), "pollution_source")

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	// 10 real rows plus classMin backfill for Vehicular, Agricultural, and
	// Burning, plus two more Industrial rows.
	const wantMessages = 10 + 3*classMin + 2

	byProvenance := map[string]int{}
	bySource := map[string]int{}
	seenIDs := map[string]bool{}
	for i := 0; i < wantMessages; i++ {
		lm := readLabeled(ctx, t, consumer)

		assert.Equal(t, lm.Event.ID, lm.Key)
		assert.False(t, seenIDs[lm.Event.ID], "duplicate event id %s", lm.Event.ID)
		seenIDs[lm.Event.ID] = true

		assert.Equal(t, lm.Event.PollutionSource, lm.Headers["pollution_source"])
		assert.Equal(t, lm.Event.Provenance, lm.Headers["provenance"])
		_, err := time.Parse(time.RFC3339, lm.Headers["processed_at"])
		assert.NoError(t, err, "processed_at should be valid RFC3339")

		byProvenance[lm.Event.Provenance]++
		bySource[lm.Event.PollutionSource]++
	}

	assert.Equal(t, 10, byProvenance[domain.ProvenanceReal])
	assert.Equal(t, wantMessages-10, byProvenance[domain.ProvenanceSimulated])
	for _, label := range domain.Labels() {
		assert.GreaterOrEqual(t, bySource[string(label)], classMin, "class %s below minimum", label)
	}

	// No extra message follows.
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no further messages on sink topic")
}
