package inventory_test

import (
	"errors"
	"testing"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommercialRounding(t *testing.T) {
	cases := map[string]string{
		"10.00": "10.50",
		"10.20": "10.50",
		"10.49": "10.50",
		"10.50": "10.99",
		"10.89": "10.99",
		"10.90": "11",
		"10.95": "11",
	}
	for in, want := range cases {
		assertDec(t, want, inventory.CommercialRounding(d(in)), "precio %s", in)
	}
}

func TestTargetPrice(t *testing.T) {
	p, err := inventory.TargetPrice(d("8"), d("0.20"))
	require.NoError(t, err)
	assertDec(t, "10", p)

	_, err = inventory.TargetPrice(d("8"), d("1"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSuggestedPrice(t *testing.T) {
	// 7 / 0.6 = 11.666… → 11.99
	p, err := inventory.SuggestedPrice(d("7"), d("0.40"))
	require.NoError(t, err)
	assertDec(t, "11.99", p)
}

func TestMargin(t *testing.T) {
	assertDec(t, "0.2", inventory.Margin(d("10"), d("8")))
	assertDec(t, "-0.5", inventory.Margin(d("10"), d("15")))
	assertDec(t, "0", inventory.Margin(d("0"), d("8")))
}

// Piezas 0.5 x 1.2 x 3 = 1.8 de área; con ancho de lote 1.5 equivale a 1.2 de largo.
func TestEquivalentQuantity_UsaAnchoDelUltimoLote(t *testing.T) {
	viejo := lot("L1", "TELA", dayN(1), "10", "2.00")
	viejo.Width = d("3")
	reciente := lot("L2", "TELA", dayN(4), "10", "2.00")
	reciente.Width = d("1.5")
	line := entity.PieceLine{
		MaterialID: "TELA",
		Unit:       entity.UnitMeter,
		Pieces:     []entity.Piece{{Width: d("0.5"), Length: d("1.2"), Count: 3}},
	}

	assertDec(t, "1.2", inventory.EquivalentQuantity(line, []entity.MaterialLot{viejo, reciente}))
}

func TestEquivalentQuantity_SinAnchoSumaLargos(t *testing.T) {
	line := entity.PieceLine{
		MaterialID: "TELA",
		Unit:       entity.UnitMeter,
		Pieces: []entity.Piece{
			{Width: d("0.5"), Length: d("1.2"), Count: 3},
			{Width: d("0.2"), Length: d("0.4"), Count: 0},
		},
	}
	assertDec(t, "3.6", inventory.EquivalentQuantity(line, []entity.MaterialLot{lot("L1", "TELA", dayN(1), "10", "2.00")}))
}

func TestProductCost_SumaLineas(t *testing.T) {
	materials := []entity.RawMaterial{
		material("TELA", entity.UnitMeter),
		material("HILO", entity.UnitKilogram),
	}
	lots := []entity.MaterialLot{
		lot("T1", "TELA", dayN(1), "10", "2.00"),
		lot("H1", "HILO", dayN(1), "1", "40.00"),
	}
	product := entity.Product{
		ID:   "P1",
		Name: "Bolso",
		Composition: []entity.CompositionLine{
			entity.LinearLine{MaterialID: "TELA", Quantity: d("150"), Unit: entity.UnitCentimeter},
			entity.LinearLine{MaterialID: "HILO", Quantity: d("50"), Unit: entity.UnitGram},
		},
	}

	cost, err := inventory.ProductCost(product, lots, materials)
	require.NoError(t, err)
	assertDec(t, "5", cost) // 1.5 m * 2 + 0.05 kg * 40
}

func TestProductCost_MateriaPrimaBorrada(t *testing.T) {
	m := material("TELA", entity.UnitMeter)
	m.DeletedAt = &day0
	product := entity.Product{
		Composition: []entity.CompositionLine{entity.LinearLine{MaterialID: "TELA", Quantity: d("1"), Unit: entity.UnitMeter}},
	}
	_, err := inventory.ProductCost(product, nil, []entity.RawMaterial{m})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
