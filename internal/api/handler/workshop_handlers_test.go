package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
	"github.com/laser-workshop/workshop-console/internal/core/service"
)

// ---------------------------------------------------------------------------
// Stub backend
// ---------------------------------------------------------------------------

type stubBackend struct {
	ports.WorkshopAPI

	orders   []domain.Order
	shift    *domain.Shift
	closure  *domain.ShiftClosure
	created  *domain.OrderInput
	deleted  []int
	advanced []domain.OrderStatus
}

func (s *stubBackend) ListOrders(context.Context, domain.OrderStatus) ([]domain.Order, error) {
	return s.orders, nil
}

func (s *stubBackend) GetOrder(_ context.Context, id int) (*domain.Order, error) {
	for _, o := range s.orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubBackend) CreateOrder(_ context.Context, in domain.OrderInput) (*domain.Order, error) {
	s.created = &in
	return &domain.Order{ID: 11, CustomerName: in.CustomerName, Price: in.Price, Status: domain.StatusUnderWork}, nil
}

func (s *stubBackend) UpdateOrderStatus(_ context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	s.advanced = append(s.advanced, status)
	return &domain.Order{ID: id, Status: status}, nil
}

func (s *stubBackend) CurrentShift(context.Context) (*domain.Shift, error) {
	return s.shift, nil
}

func (s *stubBackend) CloseShift(context.Context, int) (*domain.ShiftClosure, error) {
	return s.closure, nil
}

func (s *stubBackend) DeleteUser(_ context.Context, id int) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newWorkshop(t *testing.T, api *stubBackend) *service.Workshop {
	t.Helper()
	w := service.NewWorkshop(context.Background(), api, nil, zerolog.Nop())
	if err := w.Orders.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh orders: %v", err)
	}
	if err := w.Shifts.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh shift: %v", err)
	}
	return w
}

func withID(c echo.Context, id string) {
	c.SetParamNames("id")
	c.SetParamValues(id)
}

func decodeNotice(t *testing.T, body []byte) notice {
	t.Helper()
	var n notice
	if err := json.Unmarshal(body, &n); err != nil {
		t.Fatalf("decode notice: %v", err)
	}
	return n
}

// ---------------------------------------------------------------------------
// Orders board
// ---------------------------------------------------------------------------

func TestOrderHandler_BoardWithoutShiftIsEmpty(t *testing.T) {
	delivered := time.Now().Add(-time.Minute)
	api := &stubBackend{orders: []domain.Order{
		{ID: 1, Status: domain.StatusUnderWork},
		{ID: 2, Status: domain.StatusDelivered, DeliveredAt: &delivered},
	}}
	h := NewOrderHandler(newWorkshop(t, api), newCatalog(t))

	c, rec := newContext(http.MethodGet, "/api/worker/orders", "")
	if err := h.Board(c); err != nil {
		t.Fatalf("Board: %v", err)
	}

	var resp orderBoardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.HasActiveShift {
		t.Fatalf("expected no active shift")
	}
	for _, st := range domain.Pipeline {
		if got := resp.Buckets[st]; got == nil || len(got) != 0 || resp.Counts[st] != 0 {
			t.Fatalf("%s: expected an empty bucket, got %+v", st, got)
		}
	}
}

func TestOrderHandler_BoardLimitsDeliveredToShift(t *testing.T) {
	opened := time.Now().Add(-time.Hour)
	before, during := opened.Add(-time.Minute), opened.Add(time.Minute)
	api := &stubBackend{
		shift: &domain.Shift{ID: 3, OpenedAt: opened, IsActive: true},
		orders: []domain.Order{
			{ID: 1, Status: domain.StatusUnderWork, CustomerPhone: "0944"},
			{ID: 2, Status: domain.StatusDelivered, DeliveredAt: &before},
			{ID: 3, Status: domain.StatusDelivered, DeliveredAt: &during},
		},
	}
	h := NewOrderHandler(newWorkshop(t, api), newCatalog(t))

	c, rec := newContext(http.MethodGet, "/api/worker/orders", "")
	if err := h.Board(c); err != nil {
		t.Fatalf("Board: %v", err)
	}
	var resp orderBoardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.HasActiveShift {
		t.Fatalf("expected an active shift")
	}
	if got := resp.Buckets[domain.StatusDelivered]; len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected only order 3 delivered in the shift, got %+v", got)
	}
	if resp.Counts[domain.StatusUnderWork] != 1 {
		t.Fatalf("expected one order under work, got %d", resp.Counts[domain.StatusUnderWork])
	}
}

func TestOrderHandler_BoardRejectsUnknownStatus(t *testing.T) {
	h := NewOrderHandler(newWorkshop(t, &stubBackend{}), newCatalog(t))

	c, _ := newContext(http.MethodGet, "/api/manager/orders?status=LOST", "")
	err := h.Board(c)

	var re *RequestError
	if !errors.As(err, &re) || re.Key != "errors.unknownStatus" {
		t.Fatalf("expected unknown status rejection, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Advance
// ---------------------------------------------------------------------------

func TestOrderHandler_AdvanceDeliveredIsInfo(t *testing.T) {
	api := &stubBackend{orders: []domain.Order{{ID: 4, Status: domain.StatusDelivered}}}
	h := NewOrderHandler(newWorkshop(t, api), newCatalog(t))

	c, rec := newContext(http.MethodPost, "/api/worker/orders/4/advance", "")
	withID(c, "4")
	if err := h.Advance(c); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	n := decodeNotice(t, rec.Body.Bytes())
	if rec.Code != http.StatusOK || n.Level != LevelInfo {
		t.Fatalf("expected 200 info, got %d %q", rec.Code, n.Level)
	}
	if n.Message != "Order #4 is already delivered" {
		t.Fatalf("unexpected message %q", n.Message)
	}
	if len(api.advanced) != 0 {
		t.Fatalf("no status update expected, got %v", api.advanced)
	}
}

func TestOrderHandler_AdvanceMovesForward(t *testing.T) {
	api := &stubBackend{orders: []domain.Order{{ID: 5, Status: domain.StatusDesigning}}}
	h := NewOrderHandler(newWorkshop(t, api), newCatalog(t))

	c, rec := newContext(http.MethodPost, "/api/worker/orders/5/advance", "")
	withID(c, "5")
	if err := h.Advance(c); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	n := decodeNotice(t, rec.Body.Bytes())
	if n.Level != LevelSuccess || n.Message != "Order #5 moved to Design completed" {
		t.Fatalf("unexpected notice %+v", n)
	}
	if len(api.advanced) != 1 || api.advanced[0] != domain.StatusDesignCompleted {
		t.Fatalf("expected one move to DESIGN_COMPLETED, got %v", api.advanced)
	}
}

// ---------------------------------------------------------------------------
// Create / price parsing
// ---------------------------------------------------------------------------

func TestOrderHandler_CreatePrice(t *testing.T) {
	tests := []struct {
		name      string
		form      bool
		price     string
		wantPrice *domain.Money
		wantField bool
	}{
		{name: "string price", price: `,"price":"12.50"`, wantPrice: moneyPtr(12.5)},
		{name: "numeric price", price: `,"price":30`, wantPrice: moneyPtr(30)},
		{name: "no price"},
		{name: "negative", price: `,"price":"-1"`, wantField: true},
		{name: "form price", form: true, price: "12.5", wantPrice: moneyPtr(12.5)},
		{name: "form not a number", form: true, price: "abc", wantField: true},
		{name: "form nan", form: true, price: "NaN", wantField: true},
		{name: "form infinity", form: true, price: "Inf", wantField: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubBackend{}
			h := NewOrderHandler(newWorkshop(t, api), newCatalog(t))

			var c echo.Context
			var rec *httptest.ResponseRecorder
			if tt.form {
				form := url.Values{
					"customer_name":  {"Lina"},
					"customer_phone": {"0944"},
					"order_details":  {"Wood sign"},
					"price":          {tt.price},
				}
				req := httptest.NewRequest(http.MethodPost, "/api/manager/orders", strings.NewReader(form.Encode()))
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
				e := echo.New()
				e.Validator = NewValidator()
				rec = httptest.NewRecorder()
				c = e.NewContext(req, rec)
			} else {
				body := `{"customer_name":"Lina","customer_phone":"0944","order_details":"Wood sign"` + tt.price + `}`
				c, rec = newContext(http.MethodPost, "/api/manager/orders", body)
			}
			err := h.Create(c)

			if tt.wantField {
				var ve *domain.ValidationError
				if !errors.As(err, &ve) || len(ve.Fields["price"]) != 1 {
					t.Fatalf("expected a price validation error, got %v", err)
				}
				if api.created != nil {
					t.Fatalf("backend must not be called with an invalid price")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if rec.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d", rec.Code)
			}
			got := api.created.Price
			if (got == nil) != (tt.wantPrice == nil) || (got != nil && *got != *tt.wantPrice) {
				t.Fatalf("expected price %v, got %v", tt.wantPrice, got)
			}
		})
	}
}

func TestOrderHandler_CreateRequiresFields(t *testing.T) {
	api := &stubBackend{}
	h := NewOrderHandler(newWorkshop(t, api), newCatalog(t))

	c, _ := newContext(http.MethodPost, "/api/manager/orders", `{"customer_name":"Lina"}`)
	err := h.Create(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields["customer_phone"]) == 0 || len(ve.Fields["order_details"]) == 0 {
		t.Fatalf("expected phone and details required, got %+v", ve.Fields)
	}
}

func moneyPtr(v float64) *domain.Money {
	m := domain.Money(v)
	return &m
}

// ---------------------------------------------------------------------------
// Shifts
// ---------------------------------------------------------------------------

func TestShiftHandler_CloseReportsSummary(t *testing.T) {
	closed := time.Now()
	api := &stubBackend{closure: &domain.ShiftClosure{
		Shift:   domain.Shift{ID: 7, ClosedAt: &closed},
		Summary: domain.ShiftSummary{ShiftID: 7, TotalOrdersDelivered: 3, TotalRevenue: 120},
	}}
	h := NewShiftHandler(newWorkshop(t, api), newCatalog(t))

	c, rec := newContext(http.MethodPost, "/api/manager/shifts/7/close", "")
	withID(c, "7")
	if err := h.Close(c); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var resp struct {
		Message string              `json:"message"`
		Level   string              `json:"level"`
		Data    domain.ShiftClosure `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Shift closed: 3 orders delivered, revenue 120.00" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if resp.Data.Summary.ShiftID != 7 || resp.Data.Summary.TotalRevenue != 120 {
		t.Fatalf("expected the summary in the response, got %+v", resp.Data)
	}
}

func TestShiftHandler_CloseRejectsBadID(t *testing.T) {
	h := NewShiftHandler(newWorkshop(t, &stubBackend{}), newCatalog(t))

	c, _ := newContext(http.MethodPost, "/api/manager/shifts/x/close", "")
	withID(c, "x")

	var re *RequestError
	if err := h.Close(c); !errors.As(err, &re) || re.Key != "errors.positiveInteger" {
		t.Fatalf("expected positive integer rejection, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Employees
// ---------------------------------------------------------------------------

func TestEmployeeHandler_CannotDeleteSelf(t *testing.T) {
	api := &stubBackend{}
	h := NewEmployeeHandler(api, newCatalog(t))

	c, _ := newContext(http.MethodDelete, "/api/manager/employees/1", "")
	c.Set(CtxUser, &domain.User{ID: 1, Username: "mona", Role: domain.RoleManager})
	withID(c, "1")

	var re *RequestError
	if err := h.Delete(c); !errors.As(err, &re) || re.Key != "employees.cannotDeleteSelf" {
		t.Fatalf("expected self-delete rejection, got %v", err)
	}
	if len(api.deleted) != 0 {
		t.Fatalf("backend delete must not be called, got %v", api.deleted)
	}
}

func TestEmployeeHandler_DeleteOther(t *testing.T) {
	api := &stubBackend{}
	h := NewEmployeeHandler(api, newCatalog(t))

	c, rec := newContext(http.MethodDelete, "/api/manager/employees/2", "")
	c.Set(CtxUser, &domain.User{ID: 1, Username: "mona", Role: domain.RoleManager})
	withID(c, "2")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := decodeNotice(t, rec.Body.Bytes()); n.Level != LevelSuccess {
		t.Fatalf("expected success, got %+v", n)
	}
	if len(api.deleted) != 1 || api.deleted[0] != 2 {
		t.Fatalf("expected user 2 deleted, got %v", api.deleted)
	}
}
