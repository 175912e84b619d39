package specsheet_test

import (
	"testing"

	"github.com/fwojciec/specsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrderingCodes(t *testing.T) {
	t.Parallel()

	t.Run("finds spaced and compact codes", func(t *testing.T) {
		t.Parallel()

		text := "99 0429 43 04 PUR 2 m\n99 1491 812 12 PVC 5 m\n9904294305"

		codes := specsheet.FindOrderingCodes(text)

		require.Len(t, codes, 3)
		assert.Equal(t, "99 0429 43 04", codes[0].Code)
		assert.Equal(t, "99 1491 812 12", codes[1].Code)
		assert.Equal(t, "99 0429 43 05", codes[2].Code)
		assert.Equal(t, "9904294305", codes[2].Raw)
		assert.Equal(t, "99 0429 43 04", text[codes[0].Start:codes[0].End])
	})

	t.Run("ignores article numbers and short numbers", func(t *testing.T) {
		t.Parallel()

		codes := specsheet.FindOrderingCodes("77 3420 0000 50003 rated 250 V")

		assert.Empty(t, codes)
	})
}

func TestCanonicalOrderingCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"spaced", " 99 0429  43 04 ", "99 0429 43 04"},
		{"compact", "9904294304", "99 0429 43 04"},
		{"compact with three-digit middle block", "99149181212", "99 1491 812 12"},
		{"compact with four-digit middle block", "990429430104", "99 0429 4301 04"},
		{"compact outside scheme", "99042904", "99042904"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, specsheet.CanonicalOrderingCode(tt.raw))
		})
	}
}

func TestOrderingCodeKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "9904294304", specsheet.OrderingCodeKey("99 0429 43 04"))
	assert.Equal(t, specsheet.OrderingCodeKey("9904294304"), specsheet.OrderingCodeKey("99 0429 43 04"))
}

func TestOrderingCodeSuffix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "04", specsheet.OrderingCodeSuffix("99 0429 43 04"))
	assert.Equal(t, "12", specsheet.OrderingCodeSuffix("99 1491 812 12"))
	assert.Empty(t, specsheet.OrderingCodeSuffix("9"))
}
