package model

import "fmt"

// InsufficientLabelsError reports that the labeled table does not carry
// enough distinct classes to train a classifier.
type InsufficientLabelsError struct {
	Distinct int
}

func (e *InsufficientLabelsError) Error() string {
	return fmt.Sprintf("training requires at least 2 distinct labels, found %d", e.Distinct)
}

// NoFeaturesError reports that no numeric feature columns remain after
// excluding identifiers and label columns.
type NoFeaturesError struct{}

func (e *NoFeaturesError) Error() string {
	return "no numeric feature columns available for training"
}
