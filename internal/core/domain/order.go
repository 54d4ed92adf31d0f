package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the production stage of a customer order.
type OrderStatus string

const (
	StatusUnderWork       OrderStatus = "UNDER_WORK"
	StatusDesigning       OrderStatus = "DESIGNING"
	StatusDesignCompleted OrderStatus = "DESIGN_COMPLETED"
	StatusDelivered       OrderStatus = "DELIVERED"
)

// Pipeline is the fixed production sequence. Orders only ever move forward.
var Pipeline = []OrderStatus{
	StatusUnderWork,
	StatusDesigning,
	StatusDesignCompleted,
	StatusDelivered,
}

var (
	ErrAlreadyFinal  = errors.New("order already at final stage")
	ErrUnknownStatus = errors.New("unknown order status")
)

// Valid reports whether s is one of the pipeline stages.
func (s OrderStatus) Valid() bool {
	return s.index() >= 0
}

func (s OrderStatus) index() int {
	for i, st := range Pipeline {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the unique successor of s in the pipeline.
func (s OrderStatus) Next() (OrderStatus, error) {
	i := s.index()
	switch {
	case i < 0:
		return "", ErrUnknownStatus
	case i == len(Pipeline)-1:
		return "", ErrAlreadyFinal
	}
	return Pipeline[i+1], nil
}

// IsFinal reports whether s is the last pipeline stage.
func (s OrderStatus) IsFinal() bool {
	return s == StatusDelivered
}

// Order mirrors the backend order record.
type Order struct {
	ID                int         `json:"id"`
	CustomerName      string      `json:"customer_name"`
	CustomerPhone     string      `json:"customer_phone"`
	OrderDetails      string      `json:"order_details"`
	Image             *string     `json:"image"`
	Price             *Money      `json:"price"`
	Status            OrderStatus `json:"status"`
	StatusDisplay     string      `json:"status_display,omitempty"`
	CreatedBy         *int        `json:"created_by,omitempty"`
	CreatedByUsername string      `json:"created_by_username,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	DeliveredAt       *time.Time  `json:"delivered_at"`
}

// OrderInput carries the editable fields of an order. Price is sent only
// when set; Image is an optional upload.
type OrderInput struct {
	CustomerName  string
	CustomerPhone string
	OrderDetails  string
	Price         *Money
	Image         *Upload
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Filename string
	Content  []byte
}

// OrderStatistics is the backend's monthly order breakdown.
type OrderStatistics struct {
	Total              int                 `json:"total"`
	ByStatus           map[OrderStatus]int `json:"by_status"`
	DeliveredThisMonth int                 `json:"delivered_this_month"`
}

// ShowcaseItem is a delivered order published on the public gallery.
type ShowcaseItem struct {
	ID           int        `json:"id"`
	CustomerName string     `json:"customer_name"`
	Image        *string    `json:"image"`
	OrderDetails string     `json:"order_details"`
	DeliveredAt  *time.Time `json:"delivered_at"`
}
