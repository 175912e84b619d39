package parse_test

import (
	"testing"

	"github.com/fwojciec/specsheet"
	"github.com/fwojciec/specsheet/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const techInfoPage = `Technische Informationen / Technical information
Leiterquerschnitte / Conductor cross sections
AWG 24 = 0,25 mm²
AWG 22 = 0,34 mm²
PUR Leitung / PUR cable -40 °C bis +80 °C
Bemessungsspannung bis 250 V`

func TestTechInfoParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("extracts reference values into one product", func(t *testing.T) {
		t.Parallel()

		doc := &specsheet.Document{
			Name:  "ti.pdf",
			Hash:  "abc",
			Pages: []specsheet.Page{{Number: 1, Text: techInfoPage}},
		}

		res, err := parse.NewTechInfoParser().Parse(doc)

		require.NoError(t, err)
		require.Len(t, res.Products, 1)
		assert.Empty(t, res.Warnings)

		p := res.Products[0]
		assert.Equal(t, "General Technical Information", p.Name)
		assert.Equal(t, "Reference Data", p.Family)
		assert.Equal(t, specsheet.KindTechInfo, p.Kind)
		assert.Equal(t, parse.StrategyTechInfo, p.Strategy)
		assert.Equal(t, []int{1}, p.Pages)
		assert.Equal(t, "abc", p.SourceHash)
		require.NoError(t, p.Validate())

		awg24 := specByKey(t, p.Specs, "awg_24_mm2")
		assert.InDelta(t, 0.25, *awg24.Num, 1e-9)
		assert.Equal(t, "mm2", awg24.Unit)
		assert.InDelta(t, 0.34, *specByKey(t, p.Specs, "awg_22_mm2").Num, 1e-9)

		assert.InDelta(t, -40.0, *specByKey(t, p.Specs, "pur_temp_min_c").Num, 1e-9)
		assert.InDelta(t, 80.0, *specByKey(t, p.Specs, "pur_temp_max_c").Num, 1e-9)

		voltage := specByKey(t, p.Specs, "reference_voltage_v")
		assert.InDelta(t, 250.0, *voltage.Num, 1e-9)
		assert.Equal(t, "V", voltage.Unit)
		assert.Equal(t, "bis 250 V", voltage.Raw)
	})

	t.Run("reads ellipsis ranges in document order", func(t *testing.T) {
		t.Parallel()

		text := "Technische Informationen / Allgemeine Hinweise\nAWG 24 = 0,205 mm²\nAWG 22 = 0,326 mm²\nPVC: -25 °C ... +70 °C\nPUR: -40 °C … +80 °C\nBemessungsspannung bis 250 V"
		doc := &specsheet.Document{Name: "technische_info.pdf", Pages: []specsheet.Page{{Number: 1, Text: text}}}

		res, err := parse.NewTechInfoParser().Parse(doc)

		require.NoError(t, err)
		p := res.Products[0]
		assert.Equal(t, []string{
			"awg_24_mm2", "awg_22_mm2",
			"pvc_temp_min_c", "pvc_temp_max_c", "pur_temp_min_c", "pur_temp_max_c",
			"reference_voltage_v",
		}, p.SpecKeys())
		assert.InDelta(t, 0.326, *specByKey(t, p.Specs, "awg_22_mm2").Num, 1e-9)
		assert.InDelta(t, -25.0, *specByKey(t, p.Specs, "pvc_temp_min_c").Num, 1e-9)
		assert.InDelta(t, 70.0, *specByKey(t, p.Specs, "pvc_temp_max_c").Num, 1e-9)
		assert.InDelta(t, -40.0, *specByKey(t, p.Specs, "pur_temp_min_c").Num, 1e-9)
	})

	t.Run("ignores single temperature values", func(t *testing.T) {
		t.Parallel()

		doc := &specsheet.Document{
			Name:  "ti.pdf",
			Pages: []specsheet.Page{{Number: 1, Text: "PVC max. 70 °C\nTPE 105 °C\nAWG 24 = 0,25 mm²"}},
		}

		res, err := parse.NewTechInfoParser().Parse(doc)

		require.NoError(t, err)
		assert.Equal(t, []string{"awg_24_mm2"}, res.Products[0].SpecKeys())
	})

	t.Run("marks product empty when nothing matches", func(t *testing.T) {
		t.Parallel()

		doc := &specsheet.Document{
			Name:  "ti.pdf",
			Pages: []specsheet.Page{{Number: 1, Text: "Technische Informationen"}, {Number: 2}},
		}

		res, err := parse.NewTechInfoParser().Parse(doc)

		require.NoError(t, err)
		require.Len(t, res.Products, 1)
		p := res.Products[0]
		assert.Equal(t, "General Technical Information (empty)", p.Name)
		assert.Empty(t, p.Specs)
		assert.Equal(t, []int{1, 2}, p.Pages)
		assert.Equal(t, []string{"no matches found"}, p.Notes)
		assert.Equal(t, []string{"no reference specs found"}, res.Warnings)
	})

	t.Run("reports its kind", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, specsheet.KindTechInfo, parse.NewTechInfoParser().Kind())
	})
}
