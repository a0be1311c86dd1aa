package model

import "sort"

// ClassMetrics are the per-class quality figures on the held-out set.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Evaluation summarizes a classifier's performance on the held-out set.
type Evaluation struct {
	Accuracy  float64                   `json:"accuracy"`
	PerClass  map[string]ClassMetrics   `json:"per_class"`
	Confusion map[string]map[string]int `json:"confusion"`
	TestRows  int                       `json:"test_rows"`
}

// Evaluate compares predictions against the actual labels and computes
// accuracy plus per-class precision, recall, and F1.
func Evaluate(predicted, actual []string) Evaluation {
	ev := Evaluation{
		PerClass:  make(map[string]ClassMetrics),
		Confusion: make(map[string]map[string]int),
		TestRows:  len(actual),
	}

	correct := 0
	classes := make(map[string]bool)
	for i := range actual {
		classes[actual[i]] = true
		classes[predicted[i]] = true
		if ev.Confusion[actual[i]] == nil {
			ev.Confusion[actual[i]] = make(map[string]int)
		}
		ev.Confusion[actual[i]][predicted[i]]++
		if predicted[i] == actual[i] {
			correct++
		}
	}
	if len(actual) > 0 {
		ev.Accuracy = float64(correct) / float64(len(actual))
	}

	names := make([]string, 0, len(classes))
	for c := range classes {
		names = append(names, c)
	}
	sort.Strings(names)

	for _, c := range names {
		var tp, fp, fn int
		for i := range actual {
			switch {
			case predicted[i] == c && actual[i] == c:
				tp++
			case predicted[i] == c:
				fp++
			case actual[i] == c:
				fn++
			}
		}
		m := ClassMetrics{Support: tp + fn}
		if tp+fp > 0 {
			m.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			m.Recall = float64(tp) / float64(tp+fn)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		ev.PerClass[c] = m
	}
	return ev
}
