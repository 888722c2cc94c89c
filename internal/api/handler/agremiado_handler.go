package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"padron-agremiados/internal/dto"
	"padron-agremiados/internal/service"
	"padron-agremiados/internal/validation"
	"padron-agremiados/pkg/response"
)

// AgremiadoHandler member HTTP handlers
type AgremiadoHandler struct {
	agremiadoSvc service.AgremiadoService
}

// NewAgremiadoHandler creates the AgremiadoHandler and makes sure the custom
// binding rules are registered.
func NewAgremiadoHandler(agremiadoSvc service.AgremiadoService) *AgremiadoHandler {
	validation.Register()
	return &AgremiadoHandler{agremiadoSvc: agremiadoSvc}
}

// ListAgremiados paged listing
// GET /api/agremiados?page=&limit=&q=
func (h *AgremiadoHandler) ListAgremiados(c *gin.Context) {
	q, err := validation.ParseListQuery(c.Request.URL.Query())
	if err != nil {
		h.handleAgremiadoError(c, err)
		return
	}

	page, err := h.agremiadoSvc.List(c.Request.Context(), q)
	if err != nil {
		h.handleAgremiadoError(c, err)
		return
	}

	response.OKPage(c, page.Items, page.Total, page.Page, page.Limit)
}

// SearchAgremiados
// GET /api/agremiados/search?q=&page=&limit=
func (h *AgremiadoHandler) SearchAgremiados(c *gin.Context) {
	q, err := validation.ParseListQuery(c.Request.URL.Query())
	if err != nil {
		h.handleAgremiadoError(c, err)
		return
	}

	page, err := h.agremiadoSvc.Search(c.Request.Context(), q)
	if err != nil {
		h.handleAgremiadoError(c, err)
		return
	}

	response.OKPage(c, page.Items, page.Total, page.Page, page.Limit)
}

// GetAgremiado
// GET /api/agremiados/:id
func (h *AgremiadoHandler) GetAgremiado(c *gin.Context) {
	id, err := validation.ParseID(c.Param("id"))
	if err != nil {
		h.handleAgremiadoError(c, err)
		return
	}

	a, err := h.agremiadoSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAgremiadoError(c, err)
		return
	}

	response.OK(c, a)
}

// CreateAgremiado
// POST /api/agremiados
func (h *AgremiadoHandler) CreateAgremiado(c *gin.Context) {
	var req dto.CreateAgremiadoRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.agremiadoSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAgremiadoError(c, err)
		return
	}

	response.Created(c, a)
}

// UpdateAgremiado partial update
// PUT /api/agremiados/:id
func (h *AgremiadoHandler) UpdateAgremiado(c *gin.Context) {
	id, err := validation.ParseID(c.Param("id"))
	if err != nil {
		h.handleAgremiadoError(c, err)
		return
	}

	var req dto.UpdateAgremiadoRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.agremiadoSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAgremiadoError(c, err)
		return
	}

	response.OK(c, a)
}

// DeleteAgremiado
// DELETE /api/agremiados/:id
func (h *AgremiadoHandler) DeleteAgremiado(c *gin.Context) {
	id, err := validation.ParseID(c.Param("id"))
	if err != nil {
		h.handleAgremiadoError(c, err)
		return
	}

	if err := h.agremiadoSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleAgremiadoError(c, err)
		return
	}

	response.NoContent(c)
}

// bindJSON decodes and validates the body, writing the error response itself
// on failure.
func (h *AgremiadoHandler) bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.PayloadTooLarge(c)
		return false
	}
	h.handleAgremiadoError(c, validation.FromBindError(err))
	return false
}

// handleAgremiadoError maps member errors onto HTTP responses
func (h *AgremiadoHandler) handleAgremiadoError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, verr.Fields)
	case errors.Is(err, service.ErrCopInmutable):
		response.ValidationFailed(c, []validation.FieldError{{
			Field:   "cop",
			Message: validation.MessageFor("cop", "inmutable"),
		}})
	case errors.Is(err, validation.ErrInvalidID):
		response.BadRequest(c, "ID inválido")
	case errors.Is(err, service.ErrAgremiadoNotFound):
		response.NotFound(c, "El agremiado no fue encontrado")
	case errors.Is(err, service.ErrCopDuplicado):
		response.Conflict(c, "Este número COP ya está registrado")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
