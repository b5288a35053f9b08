package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/capacity/pkg/domain/entities"
)

// ProductionPlanItemResponse is the wire shape of one plan item.
// Decimals are JSON strings, which keeps them exact. Money carries at least two decimal places.
type ProductionPlanItemResponse struct {
	ProductID          string          `json:"productId"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	UnitPrice          string          `json:"unitPrice"`
	ProducibleQuantity decimal.Decimal `json:"producibleQuantity"`
	TotalValue         string          `json:"totalValue"`
}

// ProductionPlanResponse is the wire shape of a production plan
type ProductionPlanResponse struct {
	Items           []ProductionPlanItemResponse `json:"items"`
	GrandTotalValue string                       `json:"grandTotalValue"`
}

// NewProductionPlanResponse converts a plan into its wire shape
func NewProductionPlanResponse(plan entities.ProductionPlan) ProductionPlanResponse {
	resp := ProductionPlanResponse{
		Items:           make([]ProductionPlanItemResponse, 0, len(plan.Items)),
		GrandTotalValue: entities.FormatMoney(plan.GrandTotalValue),
	}
	for _, item := range plan.Items {
		resp.Items = append(resp.Items, ProductionPlanItemResponse{
			ProductID:          string(item.ProductID),
			Code:               item.Code,
			Name:               item.Name,
			UnitPrice:          entities.FormatMoney(item.UnitPrice),
			ProducibleQuantity: item.ProducibleQuantity,
			TotalValue:         entities.FormatMoney(item.TotalValue),
		})
	}
	return resp
}
