package entities

import "github.com/shopspring/decimal"

// ProductionPlanItem is one producible product in a production plan
type ProductionPlanItem struct {
	ProductID          ProductID
	Code               string
	Name               string
	UnitPrice          decimal.Decimal
	ProducibleQuantity decimal.Decimal
	TotalValue         decimal.Decimal
}

// ProductionPlan is the ordered result of one allocation pass
type ProductionPlan struct {
	Items           []ProductionPlanItem
	GrandTotalValue decimal.Decimal
}

// MoneyScale is the minimum number of decimal places money is rendered with
const MoneyScale = 2

// FormatMoney renders an amount with at least MoneyScale decimal places.
// Amounts carrying more places keep all of them; nothing is rounded.
func FormatMoney(amount decimal.Decimal) string {
	scale := int32(MoneyScale)
	if places := -amount.Exponent(); places > scale {
		scale = places
	}
	return amount.StringFixed(scale)
}

// Item returns the plan item for a product, if the product was producible
func (p ProductionPlan) Item(id ProductID) (ProductionPlanItem, bool) {
	for _, item := range p.Items {
		if item.ProductID == id {
			return item, true
		}
	}
	return ProductionPlanItem{}, false
}
