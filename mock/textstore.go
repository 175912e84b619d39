package mock

import (
	"context"

	"github.com/fwojciec/specsheet"
)

var _ specsheet.TextStore = (*TextStore)(nil)

// TextStore is a mock implementation of specsheet.TextStore.
type TextStore struct {
	SaveFn   func(ctx context.Context, doc *specsheet.Document) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *TextStore) Save(ctx context.Context, doc *specsheet.Document) error {
	return s.SaveFn(ctx, doc)
}

func (s *TextStore) Commit() error {
	return s.CommitFn()
}

func (s *TextStore) Abort() error {
	return s.AbortFn()
}
