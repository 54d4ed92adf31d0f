package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
)

type ReportHandler struct {
	reports ports.ReportAPI
}

func NewReportHandler(reports ports.ReportAPI) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Daily handles GET /api/manager/reports/daily.
//
// @Summary      Daily report
// @Tags         reports
// @Produce      json
// @Param        date  query     string  false  "Day as YYYY-MM-DD, default today"
// @Success      200   {object}  domain.DailyReport
// @Failure      400   {object}  ErrorResponse
// @Router       /api/manager/reports/daily [get]
func (h *ReportHandler) Daily(c echo.Context) error {
	date := c.QueryParam("date")
	if date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return &domain.ValidationError{Fields: map[string][]string{"date": {"must be YYYY-MM-DD"}}}
		}
	}
	r, err := h.reports.DailyReport(c.Request().Context(), date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Monthly handles GET /api/manager/reports/monthly.
//
// @Summary      Monthly report
// @Tags         reports
// @Produce      json
// @Param        year   query     int  false  "Year, default current"
// @Param        month  query     int  false  "Month 1-12, default current"
// @Success      200    {object}  domain.MonthlyReport
// @Failure      400    {object}  ErrorResponse
// @Router       /api/manager/reports/monthly [get]
func (h *ReportHandler) Monthly(c echo.Context) error {
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}
	month, err := queryInt(c, "month")
	if err != nil {
		return err
	}
	if month < 0 || month > 12 {
		return &domain.ValidationError{Fields: map[string][]string{"month": {"must be between 1 and 12"}}}
	}
	r, err := h.reports.MonthlyReport(c.Request().Context(), year, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}
