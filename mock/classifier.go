package mock

import "github.com/fwojciec/specsheet"

var _ specsheet.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of specsheet.Classifier.
type Classifier struct {
	ClassifyFn func(text, filename string) specsheet.Classification
}

func (c *Classifier) Classify(text, filename string) specsheet.Classification {
	return c.ClassifyFn(text, filename)
}
