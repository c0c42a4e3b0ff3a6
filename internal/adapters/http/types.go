package http

import (
	"github.com/labstack/echo/v4"

	"github.com/hmicodes/catalog/internal/domain/entities"
	"github.com/hmicodes/catalog/internal/infrastructure/logger"
)

// Request/Response types

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// PageData is the view model shared by the HTML templates
type PageData struct {
	Title         string
	Notice        string
	Error         string
	Authenticated bool
	Records       []entities.ErrorRecord

	// Public catalog filter
	Query     string
	Platform  string
	Platforms []string

	// Admin add/edit form
	Form RecordForm
}

// RecordForm drives the admin form; Editing switches it from add to update
type RecordForm struct {
	Action  string
	Editing bool
	Record  entities.ErrorRecord
}

// Context keys set by the server middleware
const (
	ContextKeyAuthenticated = "authenticated"
	ContextKeyLogger        = "logger"
)

// RequestLogger returns the request-scoped logger, or fallback when none is attached
func RequestLogger(c echo.Context, fallback *logger.Logger) *logger.Logger {
	if l, ok := c.Get(ContextKeyLogger).(*logger.Logger); ok {
		return l
	}
	return fallback
}
