package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hmicodes/catalog/internal/domain/entities"
	"github.com/hmicodes/catalog/internal/infrastructure/logger"
	"github.com/hmicodes/catalog/internal/ports"
)

// CatalogHandler handles error catalog API requests
type CatalogHandler struct {
	catalogService ports.CatalogService
	logger         *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService ports.CatalogService, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListErrors godoc
// @Summary List error codes
// @Description Return every error code in stored order
// @Tags errors
// @Produce json
// @Success 200 {array} entities.ErrorRecord
// @Router /errors [get]
func (h *CatalogHandler) ListErrors(c echo.Context) error {
	records, err := h.catalogService.ListErrors(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "")
	}

	return c.JSON(http.StatusOK, records)
}

// CreateError godoc
// @Summary Add an error code
// @Tags errors
// @Accept json
// @Produce json
// @Param request body ports.ErrorRecordRequest true "Error code"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /errors [post]
func (h *CatalogHandler) CreateError(c echo.Context) error {
	var req ports.ErrorRecordRequest
	if err := c.Bind(&req); err != nil {
		RequestLogger(c, h.logger).Debugw("Rejected request body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, invalidDataMessage)
	}

	if _, err := h.catalogService.AddError(c.Request().Context(), req); err != nil {
		return toHTTPError(err, req.ToEntity().Code)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{Success: true, Message: "Error added successfully."})
}

// UpdateError godoc
// @Summary Replace an error code
// @Tags errors
// @Accept json
// @Produce json
// @Param code path string true "Error code"
// @Param request body ports.ErrorRecordRequest true "Replacement record"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /errors/{code} [put]
func (h *CatalogHandler) UpdateError(c echo.Context) error {
	code := c.Param("code")

	var req ports.ErrorRecordRequest
	if err := c.Bind(&req); err != nil {
		RequestLogger(c, h.logger).Debugw("Rejected request body", "code", code, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, invalidDataMessage)
	}

	if _, err := h.catalogService.UpdateError(c.Request().Context(), code, req); err != nil {
		return toHTTPError(err, code)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Error " + code + " updated successfully."})
}

// DeleteError godoc
// @Summary Delete an error code
// @Tags errors
// @Produce json
// @Param code path string true "Error code"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /errors/{code} [delete]
func (h *CatalogHandler) DeleteError(c echo.Context) error {
	code := c.Param("code")

	if err := h.catalogService.DeleteError(c.Request().Context(), code); err != nil {
		return toHTTPError(err, code)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Error " + code + " deleted successfully."})
}

const invalidDataMessage = "Invalid or missing data"

// errorStatus maps domain errors to a status and a client message. code is the
// error code the request addressed. Anything unknown is a 500 whose cause stays internal.
func errorStatus(err error, code string) (int, string) {
	switch {
	case errors.Is(err, entities.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case entities.IsValidationError(err):
		return http.StatusBadRequest, invalidDataMessage
	case errors.Is(err, entities.ErrDuplicateCode):
		return http.StatusConflict, fmt.Sprintf("Error code %s already exists.", code)
	case errors.Is(err, entities.ErrRecordNotFound):
		return http.StatusNotFound, fmt.Sprintf("Error code %s not found.", code)
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

func toHTTPError(err error, code string) error {
	status, msg := errorStatus(err, code)
	return echo.NewHTTPError(status, msg).SetInternal(err)
}
