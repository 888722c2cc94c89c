package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"padron-agremiados/internal/dto"
)

// ── Success ──

// OK 200 {data}
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.DataResponse{Data: data})
}

// Created 201 {data}
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.DataResponse{Data: data})
}

// OKPage 200 {data, total, page, limit, totalPages}
func OKPage(c *gin.Context, list interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, dto.PageResponse{
		Data:       list,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: dto.TotalPages(total, limit),
	})
}

// NoContent 204 with an empty body
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ── Errors ──

// Error generic error envelope
func Error(c *gin.Context, httpStatus int, errName, message string) {
	c.AbortWithStatusJSON(httpStatus, dto.ErrorResponse{
		Error:   errName,
		Message: message,
	})
}

// ErrorWithDetails error envelope carrying details
func ErrorWithDetails(c *gin.Context, httpStatus int, errName, message string, details interface{}) {
	c.AbortWithStatusJSON(httpStatus, dto.ErrorResponse{
		Error:   errName,
		Message: message,
		Details: details,
	})
}

// ── Shortcuts ──

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "Bad request", message)
}

// ValidationFailed 400 with per-field details
func ValidationFailed(c *gin.Context, details interface{}) {
	ErrorWithDetails(c, http.StatusBadRequest, "Validation error", "Los datos proporcionados no son válidos", details)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "Not found", message)
}

// Conflict 409
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, "Duplicate entry", message)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, "Too many requests", "Demasiadas solicitudes, intente nuevamente más tarde")
}

// InternalError 500; never carries internal detail
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error", "Ocurrió un error en el servidor")
}

// PayloadTooLarge 413
func PayloadTooLarge(c *gin.Context) {
	Error(c, http.StatusRequestEntityTooLarge, "Payload too large", "El cuerpo de la solicitud es demasiado grande")
}
