package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urbanairlab/source-attribution/internal/domain"
)

// Artifact is the persisted form of the best model, with enough context to
// reproduce the training run.
type Artifact struct {
	ModelType  string        `json:"model_type"`
	Features   []string      `json:"features"`
	Seed       int64         `json:"seed"`
	SplitRatio float64       `json:"split_ratio"`
	TrainedAt  time.Time     `json:"trained_at"`
	Tree       *DecisionTree `json:"decision_tree,omitempty"`
	Forest     *RandomForest `json:"random_forest,omitempty"`
}

// Predict routes one feature vector through the persisted model.
func (a *Artifact) Predict(x []float64) (string, error) {
	switch {
	case a.Tree != nil:
		return a.Tree.Predict(x), nil
	case a.Forest != nil:
		return a.Forest.Predict(x), nil
	}
	return "", fmt.Errorf("artifact %q carries no model", a.ModelType)
}

// Performance is the persisted training report covering every candidate.
type Performance struct {
	BestModel   string                `json:"best_model"`
	Models      map[string]Evaluation `json:"models"`
	Features    []string              `json:"features"`
	TrainRows   int                   `json:"train_rows"`
	TestRows    int                   `json:"test_rows"`
	Seed        int64                 `json:"seed"`
	SplitRatio  float64               `json:"split_ratio"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// SaveArtifact writes the best model to path. The write is atomic, so a
// crashed run never leaves a truncated model behind.
func SaveArtifact(path string, res *Result) error {
	a := Artifact{
		ModelType:  res.BestName,
		Features:   res.Features,
		Seed:       res.Seed,
		SplitRatio: res.SplitRatio,
		TrainedAt:  domain.Now(),
	}
	switch m := res.BestModel.(type) {
	case *DecisionTree:
		a.Tree = m
	case *RandomForest:
		a.Forest = m
	default:
		return fmt.Errorf("unsupported model type %T", res.BestModel)
	}
	return writeJSONAtomic(path, a)
}

// LoadArtifact reads a persisted model from path.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}
	return &a, nil
}

// SavePerformance writes the training report to path, atomically.
func SavePerformance(path string, res *Result) error {
	p := Performance{
		BestModel:   res.BestName,
		Models:      res.Evaluations,
		Features:    res.Features,
		TrainRows:   res.TrainRows,
		TestRows:    res.TestRows,
		Seed:        res.Seed,
		SplitRatio:  res.SplitRatio,
		GeneratedAt: domain.Now(),
	}
	return writeJSONAtomic(path, p)
}

func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
