package service

import (
	"strings"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

// ShiftMetrics are the "today" figures shown on the manager dashboard. They
// come from the active shift's running totals, not from the order list.
type ShiftMetrics struct {
	HasActiveShift bool         `json:"has_active_shift"`
	DeliveredCount int          `json:"delivered_count"`
	Revenue        domain.Money `json:"revenue"`
}

// MetricsFor returns zero metrics when no shift is active.
func MetricsFor(shift *domain.Shift) ShiftMetrics {
	if shift == nil || !shift.IsActive {
		return ShiftMetrics{}
	}
	return ShiftMetrics{
		HasActiveShift: true,
		DeliveredCount: shift.TotalOrdersDelivered,
		Revenue:        shift.TotalRevenue,
	}
}

// DeliveredInShift returns the delivered orders whose delivery time falls
// inside the shift window. With no shift the result is empty.
func DeliveredInShift(orders []domain.Order, shift *domain.Shift) []domain.Order {
	if shift == nil {
		return nil
	}
	var out []domain.Order
	for _, o := range orders {
		if o.Status != domain.StatusDelivered || o.DeliveredAt == nil {
			continue
		}
		if shift.Contains(*o.DeliveredAt) {
			out = append(out, o)
		}
	}
	return out
}

// CountByStatus tallies orders per pipeline stage. Every stage is present.
func CountByStatus(orders []domain.Order) map[domain.OrderStatus]int {
	out := make(map[domain.OrderStatus]int, len(domain.Pipeline))
	for _, st := range domain.Pipeline {
		out[st] = 0
	}
	for _, o := range orders {
		if o.Status.Valid() {
			out[o.Status]++
		}
	}
	return out
}

// Buckets groups orders by stage for the orders board. The DELIVERED bucket
// only keeps orders delivered during the active shift.
func Buckets(orders []domain.Order, shift *domain.Shift) map[domain.OrderStatus][]domain.Order {
	out := make(map[domain.OrderStatus][]domain.Order, len(domain.Pipeline))
	for _, st := range domain.Pipeline {
		out[st] = []domain.Order{}
	}
	for _, o := range orders {
		if o.Status == domain.StatusDelivered || !o.Status.Valid() {
			continue
		}
		out[o.Status] = append(out[o.Status], o)
	}
	if shift != nil {
		out[domain.StatusDelivered] = append(out[domain.StatusDelivered], DeliveredInShift(orders, shift)...)
	}
	return out
}

// FilterByPhone keeps orders whose customer phone contains term.
func FilterByPhone(orders []domain.Order, term string) []domain.Order {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return orders
	}
	var out []domain.Order
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.CustomerPhone), term) {
			out = append(out, o)
		}
	}
	return out
}

// DashboardCounts combines the month's per-stage statistics with the active
// shift's delivered total; DELIVERED counts only the current shift.
func DashboardCounts(stats *domain.OrderStatistics, shift *domain.Shift) map[domain.OrderStatus]int {
	out := make(map[domain.OrderStatus]int, len(domain.Pipeline))
	for _, st := range domain.Pipeline {
		out[st] = 0
	}
	if stats != nil {
		for st, n := range stats.ByStatus {
			if st.Valid() && st != domain.StatusDelivered {
				out[st] = n
			}
		}
	}
	out[domain.StatusDelivered] = MetricsFor(shift).DeliveredCount
	return out
}
