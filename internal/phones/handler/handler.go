package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"phonenorm_backend/internal/phones/service"
	"phonenorm_backend/internal/phones/transport"
	"phonenorm_backend/platform/apperr"
	"phonenorm_backend/platform/httpkit"
	"phonenorm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	maxCSVBodyBytes     = 16 << 20
)

// Handler handles HTTP requests for phone normalization.
type Handler struct {
	svc           *service.Service
	val           *validator.Validator
	defaultColumn string
	maxBodyBytes  int64
}

// New creates a new phones handler.
func New(svc *service.Service, val *validator.Validator, defaultColumn string) *Handler {
	return &Handler{svc: svc, val: val, defaultColumn: defaultColumn, maxBodyBytes: maxCSVBodyBytes}
}

// Normalize normalizes a JSON list of raw inputs.
// POST /api/v1/phones/normalize
func (h *Handler) Normalize(c *gin.Context) {
	var req transport.NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(validator.FieldErrors(err)))
		return
	}

	result, err := h.svc.NormalizeBatch(c.Request.Context(), req.Inputs)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// NormalizeText normalizes each non-blank line of a free-text block.
// POST /api/v1/phones/normalize/text
func (h *Handler) NormalizeText(c *gin.Context) {
	var req transport.NormalizeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(validator.FieldErrors(err)))
		return
	}

	result, err := h.svc.NormalizeText(c.Request.Context(), req.Text)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// NormalizeCSV reads one column of an uploaded CSV body and answers with
// a CSV of the results in input order.
// POST /api/v1/phones/normalize/csv?column=phone
func (h *Handler) NormalizeCSV(c *gin.Context) {
	var req transport.NormalizeCSVRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(validator.FieldErrors(err)))
		return
	}
	column := req.Column
	if column == "" {
		column = h.defaultColumn
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	inputs, err := service.ReadCSVColumn(body, column)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpkit.HandleError(c, apperr.TooLarge(fmt.Sprintf("csv body exceeds %d bytes", tooLarge.Limit)))
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.NormalizeBatch(c.Request.Context(), inputs)
	if httpkit.HandleError(c, err) {
		return
	}

	var out bytes.Buffer
	if err := service.WriteCSV(&out, result.Items); err != nil {
		httpkit.HandleError(c, apperr.Internal("failed to write csv"))
		return
	}

	c.Header("Content-Disposition", "attachment; filename=normalized-"+result.BatchID.String()+".csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", out.Bytes())
}

// Tables returns the active legacy prefix and country hint tables.
// GET /api/v1/phones/tables
func (h *Handler) Tables(c *gin.Context) {
	httpkit.OK(c, h.svc.Tables())
}
