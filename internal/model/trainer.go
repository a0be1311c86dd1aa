package model

import (
	"log/slog"

	"github.com/urbanairlab/source-attribution/internal/observability"
)

// Classifier is a trainable multi-class model.
type Classifier interface {
	Fit(X [][]float64, y []string)
	Predict(x []float64) string
}

// Candidate pairs a classifier with its report name.
type Candidate struct {
	Name  string
	Model Classifier
}

// DefaultCandidates returns the baseline model lineup. The seed drives the
// forest's bagging; the plain tree is deterministic on its own.
func DefaultCandidates(seed int64) []Candidate {
	return []Candidate{
		{Name: "decision_tree", Model: NewDecisionTree(10, 2)},
		{Name: "random_forest", Model: NewRandomForest(25, 10, 2, seed)},
	}
}

// Trainer fits every candidate on a seeded split of the dataset and keeps
// the one with the best held-out accuracy.
type Trainer struct {
	candidates []Candidate
	splitRatio float64
	seed       int64
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewTrainer creates a Trainer over the given candidates.
func NewTrainer(candidates []Candidate, splitRatio float64, seed int64, logger *slog.Logger, metrics *observability.Metrics) *Trainer {
	return &Trainer{
		candidates: candidates,
		splitRatio: splitRatio,
		seed:       seed,
		logger:     logger,
		metrics:    metrics,
	}
}

// Result is the outcome of one training run.
type Result struct {
	BestName    string
	BestModel   Classifier
	Evaluations map[string]Evaluation
	Features    []string
	TrainRows   int
	TestRows    int
	Seed        int64
	SplitRatio  float64
}

// Train splits the dataset, fits every candidate on the training side, and
// evaluates on the held-out side. The best model is the one with the highest
// accuracy; on a tie the earlier candidate wins, so the result is stable.
func (tr *Trainer) Train(ds *Dataset) (*Result, error) {
	if classes := ds.classes(); len(classes) < 2 {
		return nil, &InsufficientLabelsError{Distinct: len(classes)}
	}
	if len(ds.Features) == 0 {
		return nil, &NoFeaturesError{}
	}

	train, test := Split(ds, tr.splitRatio, tr.seed)
	tr.logger.Info("dataset split",
		"train_rows", len(train.X), "test_rows", len(test.X),
		"features", len(ds.Features), "ratio", tr.splitRatio, "seed", tr.seed)

	res := &Result{
		Evaluations: make(map[string]Evaluation),
		Features:    ds.Features,
		TrainRows:   len(train.X),
		TestRows:    len(test.X),
		Seed:        tr.seed,
		SplitRatio:  tr.splitRatio,
	}

	bestAccuracy := -1.0
	for _, c := range tr.candidates {
		c.Model.Fit(train.X, train.Y)

		predicted := make([]string, len(test.X))
		for i, x := range test.X {
			predicted[i] = c.Model.Predict(x)
		}
		ev := Evaluate(predicted, test.Y)
		res.Evaluations[c.Name] = ev
		tr.metrics.ModelAccuracy.WithLabelValues(c.Name).Set(ev.Accuracy)
		tr.logger.Info("candidate evaluated", "model", c.Name, "accuracy", ev.Accuracy)

		if ev.Accuracy > bestAccuracy {
			bestAccuracy = ev.Accuracy
			res.BestName = c.Name
			res.BestModel = c.Model
		}
	}

	tr.logger.Info("best model selected", "model", res.BestName, "accuracy", bestAccuracy)
	return res, nil
}
