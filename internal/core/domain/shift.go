package domain

import "time"

// Shift is a manager-opened accounting period. At most one is active.
type Shift struct {
	ID                   int        `json:"id"`
	OpenedAt             time.Time  `json:"opened_at"`
	ClosedAt             *time.Time `json:"closed_at"`
	IsActive             bool       `json:"is_active"`
	TotalOrdersDelivered int        `json:"total_orders_delivered"`
	TotalRevenue         Money      `json:"total_revenue"`
	DurationHours        float64    `json:"duration_hours"`
	OpenedBy             *int       `json:"opened_by,omitempty"`
	OpenedByUsername     string     `json:"opened_by_username,omitempty"`
	ClosedBy             *int       `json:"closed_by,omitempty"`
	ClosedByUsername     string     `json:"closed_by_username,omitempty"`
}

// Contains reports whether t falls inside the shift window. An open shift has
// no upper bound; a closed shift ends at ClosedAt, exclusive.
func (s *Shift) Contains(t time.Time) bool {
	if t.Before(s.OpenedAt) {
		return false
	}
	return s.ClosedAt == nil || t.Before(*s.ClosedAt)
}

// ShiftSummary is returned by the backend when a shift is closed.
type ShiftSummary struct {
	ShiftID              int        `json:"shift_id"`
	OpenedAt             time.Time  `json:"opened_at"`
	ClosedAt             *time.Time `json:"closed_at"`
	DurationHours        float64    `json:"duration_hours"`
	TotalOrdersDelivered int        `json:"total_orders_delivered"`
	TotalRevenue         Money      `json:"total_revenue"`
	Message              string     `json:"message,omitempty"`
}

// ShiftClosure pairs the closed shift with its summary.
type ShiftClosure struct {
	Shift   Shift        `json:"shift"`
	Summary ShiftSummary `json:"summary"`
}
