package parse_test

import (
	"testing"

	"github.com/fwojciec/specsheet"
	"github.com/fwojciec/specsheet/mock"
	"github.com/fwojciec/specsheet/parse"
	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("default registry covers every known template", func(t *testing.T) {
		t.Parallel()

		r := parse.NewDefaultRegistry()

		assert.Equal(t, []specsheet.DocumentKind{
			specsheet.KindCBS260,
			specsheet.KindM12Catalog,
			specsheet.KindTechInfo,
		}, r.List())
		for _, kind := range r.List() {
			p := r.Get(kind)
			if assert.NotNil(t, p, kind) {
				assert.Equal(t, kind, p.Kind())
			}
		}
	})

	t.Run("returns nil for unknown documents", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, parse.NewDefaultRegistry().Get(specsheet.KindUnknown))
	})

	t.Run("register replaces existing parser", func(t *testing.T) {
		t.Parallel()

		r := parse.NewDefaultRegistry()
		custom := &mock.Parser{
			KindFn: func() specsheet.DocumentKind { return specsheet.KindTechInfo },
		}

		r.Register(custom)

		assert.Same(t, custom, r.Get(specsheet.KindTechInfo))
		assert.Len(t, r.List(), 3)
	})

	t.Run("empty registry lists nothing", func(t *testing.T) {
		t.Parallel()

		r := parse.NewRegistry()

		assert.Empty(t, r.List())
		assert.Nil(t, r.Get(specsheet.KindM12Catalog))
	})
}
