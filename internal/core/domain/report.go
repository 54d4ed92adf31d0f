package domain

// DailyReport summarises orders for a single day.
type DailyReport struct {
	Date              string              `json:"date"`
	TotalOrders       int                 `json:"total_orders"`
	TotalRevenue      Money               `json:"total_revenue"`
	AverageOrderValue Money               `json:"average_order_value"`
	OrdersByStatus    map[OrderStatus]int `json:"orders_by_status"`
	Orders            []Order             `json:"orders,omitempty"`
}

// DailyBreakdown is one day of a monthly report.
type DailyBreakdown struct {
	Day     int   `json:"day"`
	Count   int   `json:"count"`
	Revenue Money `json:"revenue"`
}

// MonthlyReport summarises orders for a calendar month.
type MonthlyReport struct {
	Year              int                 `json:"year"`
	Month             int                 `json:"month"`
	TotalOrders       int                 `json:"total_orders"`
	TotalRevenue      Money               `json:"total_revenue"`
	AverageOrderValue Money               `json:"average_order_value"`
	OrdersByStatus    map[OrderStatus]int `json:"orders_by_status"`
	DailyBreakdown    []DailyBreakdown    `json:"daily_breakdown,omitempty"`
}
