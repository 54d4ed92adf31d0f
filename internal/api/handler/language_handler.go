package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/laser-workshop/workshop-console/internal/i18n"
)

type LanguageHandler struct {
	catalog *i18n.Catalog
}

func NewLanguageHandler(catalog *i18n.Catalog) *LanguageHandler {
	return &LanguageHandler{catalog: catalog}
}

type languageRequest struct {
	Language string `json:"language" validate:"required,oneof=en ar"`
}

type languageResponse struct {
	Language  i18n.Language `json:"language"`
	Name      string        `json:"name"`
	Direction string        `json:"direction"`
	Message   string        `json:"message,omitempty"`
}

func (h *LanguageHandler) current(msg string) languageResponse {
	lang := h.catalog.Language()
	return languageResponse{
		Language:  lang,
		Name:      i18n.LanguageName(lang),
		Direction: h.catalog.Direction(),
		Message:   msg,
	}
}

// Get handles GET /api/language.
//
// @Summary      Active display language
// @Tags         language
// @Produce      json
// @Success      200  {object}  languageResponse
// @Router       /api/language [get]
func (h *LanguageHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.current(""))
}

// Set handles PUT /api/language. An empty body toggles between the two
// languages.
//
// @Summary      Switch display language
// @Tags         language
// @Accept       json
// @Produce      json
// @Param        body  body      languageRequest  false  "Target language"
// @Success      200   {object}  languageResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /api/language [put]
func (h *LanguageHandler) Set(c echo.Context) error {
	var req languageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("errors.invalidPayload", nil)
	}

	ctx := c.Request().Context()
	if req.Language == "" {
		if _, err := h.catalog.Toggle(ctx); err != nil {
			return err
		}
	} else {
		if err := c.Validate(&req); err != nil {
			return err
		}
		if err := h.catalog.SetLanguage(ctx, i18n.Language(req.Language)); err != nil {
			return err
		}
	}

	lang := h.catalog.Language()
	return c.JSON(http.StatusOK, h.current(h.catalog.Translate("language.changed", map[string]any{"name": i18n.LanguageName(lang)})))
}
