package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/capacity/pkg/domain/entities"
)

// Ledger tracks the remaining stock of each material during one planning pass.
// A Ledger is not safe for concurrent use and must not outlive the pass it was built for.
type Ledger struct {
	remaining map[entities.MaterialID]decimal.Decimal
}

// NewLedger seeds a ledger from a material snapshot. Absent stock is read as zero.
// When a material id appears more than once, the last entry wins.
func NewLedger(materials []*entities.Material) *Ledger {
	remaining := make(map[entities.MaterialID]decimal.Decimal, len(materials))
	for _, material := range materials {
		if material == nil {
			continue
		}
		remaining[material.ID] = floorAtZero(material.StockOrZero())
	}
	return &Ledger{remaining: remaining}
}

// Get returns the remaining quantity for a material, or zero when it is unknown
func (l *Ledger) Get(id entities.MaterialID) decimal.Decimal {
	qty, ok := l.remaining[id]
	if !ok {
		return decimal.Zero
	}
	return qty
}

// Consume subtracts amount from the material's remaining quantity, never going below zero
func (l *Ledger) Consume(id entities.MaterialID, amount decimal.Decimal) {
	l.remaining[id] = floorAtZero(l.Get(id).Sub(amount))
}

// Remaining returns a copy of the current stock per material
func (l *Ledger) Remaining() map[entities.MaterialID]decimal.Decimal {
	snapshot := make(map[entities.MaterialID]decimal.Decimal, len(l.remaining))
	for id, qty := range l.remaining {
		snapshot[id] = qty
	}
	return snapshot
}

func floorAtZero(qty decimal.Decimal) decimal.Decimal {
	if qty.IsNegative() {
		return decimal.Zero
	}
	return qty
}
