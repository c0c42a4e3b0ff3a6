package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hmicodes/catalog/internal/domain/entities"
	"github.com/hmicodes/catalog/internal/infrastructure/logger"
	"github.com/hmicodes/catalog/internal/ports"
)

// Notices shown on the admin page after a form post, keyed by the notice query parameter
var adminNotices = map[string]string{
	"added":   "Error code added successfully.",
	"updated": "Error code updated successfully.",
	"deleted": "Error code deleted successfully.",
}

// PageHandler renders the public catalog and the admin pages
type PageHandler struct {
	catalogService ports.CatalogService
	logger         *logger.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(catalogService ports.CatalogService, logger *logger.Logger) *PageHandler {
	return &PageHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// Index renders the public catalog, filtered by the q and platform query parameters
func (h *PageHandler) Index(c echo.Context) error {
	filter := ports.ErrorFilter{
		Query:    strings.TrimSpace(c.QueryParam("q")),
		Platform: c.QueryParam("platform"),
	}

	result, err := h.catalogService.SearchErrors(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(err, "")
	}

	return c.Render(http.StatusOK, "index", PageData{
		Title:         "Error Codes",
		Authenticated: IsAuthenticated(c),
		Records:       result.Records,
		Query:         filter.Query,
		Platform:      filter.Platform,
		Platforms:     result.Platforms,
	})
}

// Admin renders the admin view. With ?edit=<code> the form is prefilled for an update.
// Routed behind the page session guard.
func (h *PageHandler) Admin(c echo.Context) error {
	records, err := h.catalogService.ListErrors(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "")
	}

	data := PageData{
		Title:         "Admin",
		Notice:        adminNotices[c.QueryParam("notice")],
		Authenticated: true,
		Records:       records,
		Form:          addForm(entities.ErrorRecord{}),
	}

	if code := c.QueryParam("edit"); code != "" {
		record, ok := findRecord(records, code)
		if !ok {
			status, msg := errorStatus(entities.ErrRecordNotFound, code)
			data.Error = msg
			return c.Render(status, "admin", data)
		}
		data.Form = editForm(code, record)
	}

	return c.Render(http.StatusOK, "admin", data)
}

// CreateRecord handles the admin add form
func (h *PageHandler) CreateRecord(c echo.Context) error {
	req := ports.ErrorRecordRequestFromForm(postForm(c))

	if _, err := h.catalogService.AddError(c.Request().Context(), req); err != nil {
		record := req.ToEntity()
		return h.renderFormError(c, err, record.Code, addForm(record))
	}

	return c.Redirect(http.StatusFound, "/admin?notice=added")
}

// UpdateRecord handles the admin edit form for the record at :code
func (h *PageHandler) UpdateRecord(c echo.Context) error {
	code := c.Param("code")
	req := ports.ErrorRecordRequestFromForm(postForm(c))

	if _, err := h.catalogService.UpdateError(c.Request().Context(), code, req); err != nil {
		return h.renderFormError(c, err, code, editForm(code, req.ToEntity()))
	}

	return c.Redirect(http.StatusFound, "/admin?notice=updated")
}

// DeleteRecord handles the delete button of a table row
func (h *PageHandler) DeleteRecord(c echo.Context) error {
	code := c.Param("code")

	if err := h.catalogService.DeleteError(c.Request().Context(), code); err != nil {
		return h.renderFormError(c, err, code, addForm(entities.ErrorRecord{}))
	}

	return c.Redirect(http.StatusFound, "/admin?notice=deleted")
}

// renderFormError re-shows the admin page with the rejected form and the same
// message the API would return. Storage failures go to the error handler.
func (h *PageHandler) renderFormError(c echo.Context, err error, code string, form RecordForm) error {
	status, msg := errorStatus(err, code)
	if status == http.StatusInternalServerError {
		return toHTTPError(err, code)
	}

	RequestLogger(c, h.logger).Debugw("Admin form rejected", "code", code, "error", err)

	records, listErr := h.catalogService.ListErrors(c.Request().Context())
	if listErr != nil {
		return toHTTPError(listErr, "")
	}

	return c.Render(status, "admin", PageData{
		Title:         "Admin",
		Error:         msg,
		Authenticated: true,
		Records:       records,
		Form:          form,
	})
}

func addForm(record entities.ErrorRecord) RecordForm {
	return RecordForm{Action: "/admin/errors", Record: record}
}

func editForm(code string, record entities.ErrorRecord) RecordForm {
	return RecordForm{Action: "/admin/errors/" + url.PathEscape(code), Editing: true, Record: record}
}

// postForm returns the urlencoded body only, so query parameters cannot supply fields
func postForm(c echo.Context) url.Values {
	if err := c.Request().ParseForm(); err != nil {
		return url.Values{}
	}
	return c.Request().PostForm
}

func findRecord(records []entities.ErrorRecord, code string) (entities.ErrorRecord, bool) {
	for _, r := range records {
		if r.Code == code {
			return r, true
		}
	}
	return entities.ErrorRecord{}, false
}
