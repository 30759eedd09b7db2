package models

// Classifier is a loaded, read-only statistical model. Implementations must be
// safe for concurrent use.
type Classifier interface {
	Predict(features map[string]float64) (*ClassifierSignal, error)
}
