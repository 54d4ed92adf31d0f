package ports

import (
	"context"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

// TokenSource supplies the bearer token for outgoing requests and rotates it
// when the backend rejects it. Refresh receives the token that was rejected so
// concurrent callers can share a single rotation.
type TokenSource interface {
	AccessToken() string
	Refresh(ctx context.Context, rejected string) (string, error)
}

// AuthAPI covers the backend authentication endpoints.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context) (*domain.User, error)
}

// OrderAPI covers the backend order endpoints.
type OrderAPI interface {
	ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	CreateOrder(ctx context.Context, in domain.OrderInput) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id int, in domain.OrderInput) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int) error
	TrackOrder(ctx context.Context, id int) (*domain.Order, error)
	OrderStatistics(ctx context.Context, year, month int) (*domain.OrderStatistics, error)
}

// ShiftAPI covers the backend shift endpoints. CurrentShift returns
// (nil, nil) when no shift is active.
type ShiftAPI interface {
	CurrentShift(ctx context.Context) (*domain.Shift, error)
	OpenShift(ctx context.Context) (*domain.Shift, error)
	CloseShift(ctx context.Context, id int) (*domain.ShiftClosure, error)
	ListShifts(ctx context.Context) ([]domain.Shift, error)
	GetShift(ctx context.Context, id int) (*domain.Shift, error)
	ShiftDeliveredOrders(ctx context.Context, id int) ([]domain.Order, error)
}

// ReportAPI covers the manager report endpoints. Zero arguments are omitted
// and the backend falls back to today / the current month.
type ReportAPI interface {
	DailyReport(ctx context.Context, date string) (*domain.DailyReport, error)
	MonthlyReport(ctx context.Context, year, month int) (*domain.MonthlyReport, error)
}

// UserAPI covers employee management.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int) (*domain.User, error)
	RegisterUser(ctx context.Context, reg domain.Registration) (*domain.User, error)
	UpdateUser(ctx context.Context, id int, upd domain.UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id int) error
}

// ShowcaseAPI covers the public gallery.
type ShowcaseAPI interface {
	Showcase(ctx context.Context, withImage bool) ([]domain.ShowcaseItem, error)
}

// WorkshopAPI is the full backend surface.
type WorkshopAPI interface {
	AuthAPI
	OrderAPI
	ShiftAPI
	ReportAPI
	UserAPI
	ShowcaseAPI
	Ping(ctx context.Context) error
}
