package inventory_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// ── helpers ───────────────────────────────────────────────────────────────────

var day0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dayN(n int) time.Time { return day0.AddDate(0, 0, n-1) }

// assertDec compara decimales por valor (no por representación interna).
func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	ctx := ""
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			ctx = fmt.Sprintf(format, msgAndArgs[1:]...)
		}
	}
	assert.True(t, d(want).Equal(got), "esperado %s, obtenido %s %s", want, got.String(), ctx)
}

func material(id string, unit entity.Unit) entity.RawMaterial {
	return entity.RawMaterial{ID: id, Name: "Material " + id, Unit: unit, Status: entity.MaterialStatusActive}
}

func lot(id, materialID string, date time.Time, qty, cost string) entity.MaterialLot {
	return entity.MaterialLot{
		ID:                id,
		MaterialID:        materialID,
		Date:              date,
		InitialQuantity:   d(qty),
		RemainingQuantity: d(qty),
		UnitCost:          d(cost),
		EntryMode:         entity.EntryModePiece,
	}
}

func entry(materialID string, kind entity.LedgerKind, qty, cost string) entity.LedgerEntry {
	return entity.LedgerEntry{MaterialID: materialID, Kind: kind, Quantity: d(qty), UnitCost: d(cost), Date: day0}
}
