package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"fdrtidy/adapters/codec"
	"fdrtidy/adapters/excel"
	"fdrtidy/adapters/render"
	"fdrtidy/app"
	"fdrtidy/domain/core"
	"fdrtidy/domain/table"
	"fdrtidy/internal"
	apperrors "fdrtidy/internal/errors"
	"fdrtidy/ports"

	"github.com/gin-gonic/gin"
)

// ResultsHandler serves stored results and their tables
type ResultsHandler struct {
	service *app.TabulationService
	logger  *internal.Logger
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(service *app.TabulationService, logger *internal.Logger) *ResultsHandler {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &ResultsHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes attaches the result endpoints to a router group
func (h *ResultsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/results", h.CreateResult)
	rg.GET("/results", h.ListResults)
	rg.GET("/results/:id", h.GetResult)
	rg.GET("/results/:id/:kind", h.GetTable)
	rg.DELETE("/results/:id", h.DeleteResult)
}

// CreateResult stores a JSON result document
func (h *ResultsHandler) CreateResult(c *gin.Context) {
	res, err := codec.DecodeResult(c.Request.Body)
	if err != nil {
		h.fail(c, err)
		return
	}
	if label := c.Query("label"); label != "" {
		res.Label = label
	}

	id, err := h.service.Save(c.Request.Context(), res)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "warnings": res.Check()})
}

// ListResults lists stored results, newest first
func (h *ResultsHandler) ListResults(c *gin.Context) {
	filters := ports.ResultFilters{Label: c.Query("label")}
	var err error
	if filters.Limit, err = intQuery(c, "limit"); err != nil {
		h.fail(c, err)
		return
	}
	if filters.Offset, err = intQuery(c, "offset"); err != nil {
		h.fail(c, err)
		return
	}

	summaries, err := h.service.Repository().List(c.Request.Context(), filters)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": summaries, "count": len(summaries)})
}

// GetResult returns the stored result document
func (h *ResultsHandler) GetResult(c *gin.Context) {
	id, ok := h.resultID(c)
	if !ok {
		return
	}

	res, err := h.service.Repository().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	body, err := codec.MarshalResult(res)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GetTable renders one of the three tables of a stored result
func (h *ResultsHandler) GetTable(c *gin.Context) {
	id, ok := h.resultID(c)
	if !ok {
		return
	}

	kind, ok := ports.ParseTableKind(c.Param("kind"))
	if !ok {
		h.fail(c, apperrors.InvalidInput(fmt.Sprintf("unknown table %q, expected tidy, augment or glance", c.Param("kind"))))
		return
	}

	flavor, err := table.ParseFlavor(c.Query("flavor"))
	if err != nil {
		h.fail(c, err)
		return
	}

	format := render.FormatJSON
	if f := c.Query("format"); f != "" {
		if format, err = render.ParseFormat(f); err != nil {
			h.fail(c, err)
			return
		}
	}

	var opts ports.RecordOptions
	if kind == ports.KindRecords {
		for _, assignment := range c.QueryArray("extra") {
			col, err := excel.ParseAssignment(assignment, excel.DefaultReaderConfig())
			if err != nil {
				h.fail(c, apperrors.Wrap(apperrors.InvalidInput(err.Error()), "invalid extra column"))
				return
			}
			opts.Extra = append(opts.Extra, col)
		}
		opts.StrictRows = c.Query("strict") == "true"
	}

	t, err := h.service.Tabulate(c.Request.Context(), id, kind, opts, flavor)
	if err != nil {
		h.fail(c, err)
		return
	}

	etag := fmt.Sprintf(`"%s-%s"`, table.Fingerprint(t).Short(16), format)
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, t, format); err != nil {
		h.fail(c, err)
		return
	}
	if format == render.FormatXLSX {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%s%s", id, kind, format.Extension()))
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// DeleteResult removes a stored result
func (h *ResultsHandler) DeleteResult(c *gin.Context) {
	id, ok := h.resultID(c)
	if !ok {
		return
	}

	if err := h.service.Repository().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ResultsHandler) resultID(c *gin.Context) (core.ResultID, bool) {
	id, err := core.ParseResultID(c.Param("id"))
	if err != nil {
		h.fail(c, apperrors.InvalidInput(err.Error()))
		return "", false
	}
	return id, true
}

func (h *ResultsHandler) fail(c *gin.Context, err error) {
	code := apperrors.Classify(err)
	status := StatusFor(code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

// StatusFor maps an application error code onto an HTTP status
func StatusFor(code string) int {
	switch code {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeInvalidInput, apperrors.CodeValidationError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("%s must be a non-negative integer, got %q", key, raw))
	}
	return n, nil
}
