package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/syncscript/backend/internal/auth"
	"example.com/syncscript/backend/internal/models"
	"example.com/syncscript/backend/internal/repository"
)

type BandHandler struct {
	Bands *repository.BandRepository
}

// NewBandHandler создает обработчик бюджетных диапазонов.
func NewBandHandler(bands *repository.BandRepository) *BandHandler {
	return &BandHandler{Bands: bands}
}

type BandRequest struct {
	CategoryID string `json:"category_id" validate:"required,max=50"`
	MinCents   int64  `json:"min_cents" validate:"min=0"`
	IdealCents int64  `json:"ideal_cents" validate:"min=0"`
	MaxCents   int64  `json:"max_cents" validate:"min=0"`
}

type BandListResponse struct {
	Bands []models.ComfortBand `json:"bands"`
}

// List возвращает диапазоны пользователя.
func (h *BandHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	bands, err := h.Bands.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, BandListResponse{Bands: bands})
}

// Upsert сохраняет диапазон категории.
func (h *BandHandler) Upsert(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req BandRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	band, err := h.Bands.Upsert(c.Request().Context(), models.ComfortBand{
		UserID:     userID,
		CategoryID: req.CategoryID,
		MinCents:   req.MinCents,
		IdealCents: req.IdealCents,
		MaxCents:   req.MaxCents,
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidBand) {
			return badRequest(c, "band must satisfy 0 <= min < ideal < max")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, band)
}

// Delete удаляет диапазон категории.
func (h *BandHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	categoryID := c.Param("categoryId")
	if categoryID == "" {
		return badRequest(c, "invalid category id")
	}

	if err := h.Bands.Delete(c.Request().Context(), userID, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "band not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}
