package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/specsheet"
)

var _ specsheet.Classifier = (*LoggingClassifier)(nil)

// LoggingClassifier wraps a Classifier and logs each decision with its scores.
type LoggingClassifier struct {
	next   specsheet.Classifier
	logger *slog.Logger
}

func NewLoggingClassifier(next specsheet.Classifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

func (c *LoggingClassifier) Classify(text, filename string) specsheet.Classification {
	begin := time.Now()
	result := c.next.Classify(text, filename)
	c.logger.Info("classify",
		"file", filename,
		"kind", string(result.Kind),
		"m12", result.Scores[specsheet.KindM12Catalog],
		"cbs260", result.Scores[specsheet.KindCBS260],
		"techinfo", result.Scores[specsheet.KindTechInfo],
		"codes", result.OrderingCodes,
		"duration", time.Since(begin),
	)
	return result
}
