package entity

import "time"

// Snapshot foto inmutable de los datos de un tenant sobre la que corre cada evaluación.
// Now fija el instante de referencia para ventanas de tiempo (30 días, 60 días).
type Snapshot struct {
	Now       time.Time
	Materials []RawMaterial
	Lots      []MaterialLot
	Ledger    []LedgerEntry
	Products  []Product
	Movements []ProductionMovement
}

// MaterialByID busca una materia prima viva por ID.
func (s Snapshot) MaterialByID(id string) (RawMaterial, bool) {
	for _, m := range s.Materials {
		if m.ID == id && m.IsAlive() {
			return m, true
		}
	}
	return RawMaterial{}, false
}

// LotsOf devuelve los lotes de una materia prima conservando el orden de inserción.
func LotsOf(materialID string, lots []MaterialLot) []MaterialLot {
	out := make([]MaterialLot, 0, len(lots))
	for _, l := range lots {
		if l.MaterialID == materialID {
			out = append(out, l)
		}
	}
	return out
}
