package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
	"github.com/laser-workshop/workshop-console/internal/i18n"
)

// EmployeeHandler manages workshop accounts. Calls pass straight through to
// the backend; nothing here is cached.
type EmployeeHandler struct {
	users   ports.UserAPI
	catalog *i18n.Catalog
}

func NewEmployeeHandler(users ports.UserAPI, catalog *i18n.Catalog) *EmployeeHandler {
	return &EmployeeHandler{users: users, catalog: catalog}
}

type registerRequest struct {
	Username  string `json:"username"   validate:"required,max=150"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
	Password2 string `json:"password2"  validate:"required,eqfield=Password"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Role      string `json:"role"       validate:"required,oneof=MANAGER WORKER"`
	Phone     string `json:"phone"      validate:"omitempty,max=20"`
}

type updateEmployeeRequest struct {
	Email     *string `json:"email"      validate:"omitempty,email"`
	FirstName *string `json:"first_name" validate:"omitempty"`
	LastName  *string `json:"last_name"  validate:"omitempty"`
	Role      *string `json:"role"       validate:"omitempty,oneof=MANAGER WORKER"`
	Phone     *string `json:"phone"      validate:"omitempty,max=20"`
}

// List handles GET /api/manager/employees.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Success      200  {array}   domain.User
// @Router       /api/manager/employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// Register handles POST /api/manager/employees.
//
// @Summary      Add an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  notice
// @Failure      400   {object}  ErrorResponse
// @Router       /api/manager/employees [post]
func (h *EmployeeHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("errors.invalidPayload", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.users.RegisterUser(c.Request().Context(), domain.Registration(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, success(h.catalog, "employees.created", map[string]any{"username": req.Username}, u))
}

// Update handles PATCH /api/manager/employees/:id.
//
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "User ID"
// @Param        body  body      updateEmployeeRequest  true  "Fields to change"
// @Success      200   {object}  notice
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/manager/employees/{id} [patch]
func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("errors.invalidPayload", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.users.UpdateUser(c.Request().Context(), id, domain.UserUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(h.catalog, "employees.updated", map[string]any{"username": u.Username}, u))
}

// Delete handles DELETE /api/manager/employees/:id. Managers cannot delete
// their own account.
//
// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  notice
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/manager/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if me, err := ctxUser(c); err == nil && me.ID == id {
		return badRequest("employees.cannotDeleteSelf", nil)
	}
	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(h.catalog, "employees.deleted", nil, nil))
}
