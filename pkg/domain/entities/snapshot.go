package entities

import "time"

// PlanSnapshot is an archived production plan together with when and why it was computed
type PlanSnapshot struct {
	RunID       string
	GeneratedAt time.Time
	Trigger     string
	Plan        ProductionPlan
}
