// Package classifier provides the locally trained statistical categorizer:
// a naive Bayes text model fit on previously categorized transactions.
//
// Training and prediction are separate, non-overlapping phases. A Model is
// read-only once built; retraining produces a new Model rather than mutating
// one that predictions may be running against.
package classifier

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"ledgersort/internal/logging"

	"github.com/jbrukh/bayesian"
)

// Example is one training observation: a transaction description and the
// category it was assigned.
type Example struct {
	Text  string
	Label string
}

// InsufficientSamplesError reports a training set below the configured
// minimum, or one without at least two distinct labels.
type InsufficientSamplesError struct {
	Got int
	Min int
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("not enough training samples: got %d, need at least %d across two or more categories", e.Got, e.Min)
}

// Model is an opaque handle to a trained classifier.
type Model struct {
	clf *bayesian.Classifier
}

// Train fits a naive Bayes model on the examples. Examples with an empty
// description or label are discarded before the minimum-sample gate.
func Train(examples []Example, minSamples int, logger logging.Logger) (*Model, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	var usable []Example
	labels := map[string]struct{}{}
	for _, ex := range examples {
		if strings.TrimSpace(ex.Text) == "" || strings.TrimSpace(ex.Label) == "" {
			continue
		}
		usable = append(usable, ex)
		labels[ex.Label] = struct{}{}
	}

	if len(usable) < minSamples || len(labels) < 2 {
		return nil, &InsufficientSamplesError{Got: len(usable), Min: minSamples}
	}

	classes := make([]bayesian.Class, 0, len(labels))
	for label := range labels {
		classes = append(classes, bayesian.Class(label))
	}

	clf := bayesian.NewClassifier(classes...)
	for _, ex := range usable {
		clf.Learn(tokenize(ex.Text), bayesian.Class(ex.Label))
	}

	logger.WithFields(
		logging.Field{Key: "samples", Value: len(usable)},
		logging.Field{Key: "categories", Value: len(classes)},
	).Info("Trained local classifier")

	return &Model{clf: clf}, nil
}

// Predict returns the most likely category label for a description.
func (m *Model) Predict(text string) (string, error) {
	if m == nil || m.clf == nil {
		return "", fmt.Errorf("no model loaded")
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return "", fmt.Errorf("no usable tokens in description")
	}

	_, idx, _ := m.clf.LogScores(tokens)
	if idx < 0 || idx >= len(m.clf.Classes) {
		return "", fmt.Errorf("classifier returned out-of-range class index %d", idx)
	}
	return string(m.clf.Classes[idx]), nil
}

// Save persists the model for cross-run reuse.
func (m *Model) Save(path string) error {
	if m == nil || m.clf == nil {
		return fmt.Errorf("no model to save")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("error creating model directory: %w", err)
	}
	if err := m.clf.WriteToFile(path); err != nil {
		return fmt.Errorf("error writing model file: %w", err)
	}
	return nil
}

// Load restores a previously persisted model. A missing file is reported as
// an error; callers treat it as "no model available" and rely on the cascade
// fallbacks.
func Load(path string) (*Model, error) {
	clf, err := bayesian.NewClassifierFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading model from %s: %w", path, err)
	}
	return &Model{clf: clf}, nil
}

// tokenize lower-cases a description and splits it into alphanumeric runs.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
