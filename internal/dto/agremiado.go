package dto

import (
	"encoding/json"
	"strings"
	"time"

	"padron-agremiados/internal/model"
)

// ── Normalizing text types ──
//
// Decoding a request body normalizes free text before gin runs the binding
// validators, so length rules apply to the trimmed value.

// TrimmedText JSON string with surrounding whitespace removed.
type TrimmedText string

func (t *TrimmedText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = TrimmedText(strings.TrimSpace(s))
	return nil
}

// UpperText JSON string trimmed and uppercased.
type UpperText string

func (u *UpperText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*u = UpperText(strings.ToUpper(strings.TrimSpace(s)))
	return nil
}

// ── Requests ──

// CreateAgremiadoRequest POST /api/agremiados body
type CreateAgremiadoRequest struct {
	Cop        TrimmedText      `json:"cop"        binding:"required,number,max=32"`
	Nombres    UpperText        `json:"nombres"    binding:"required,min=2,max=100"`
	Apellidos  UpperText        `json:"apellidos"  binding:"required,min=1,max=100"`
	Colegio    model.Colegio    `json:"colegio"    binding:"required,enum"`
	Estado     model.Estado     `json:"estado"     binding:"omitempty,enum"`
	Habilitado model.Habilitado `json:"habilitado" binding:"omitempty,enum"`
}

// ApplyDefaults fills optional enums left out of the body.
func (r *CreateAgremiadoRequest) ApplyDefaults() {
	if r.Estado == "" {
		r.Estado = model.EstadoActivo
	}
	if r.Habilitado == "" {
		r.Habilitado = model.HabilitadoActivo
	}
}

// UpdateAgremiadoRequest PUT /api/agremiados/:id body. Every field is optional;
// present fields follow the create rules.
type UpdateAgremiadoRequest struct {
	Cop        *TrimmedText      `json:"cop"        binding:"omitnil,number,max=32"`
	Nombres    *UpperText        `json:"nombres"    binding:"omitnil,min=2,max=100"`
	Apellidos  *UpperText        `json:"apellidos"  binding:"omitnil,min=1,max=100"`
	Colegio    *model.Colegio    `json:"colegio"    binding:"omitnil,enum"`
	Estado     *model.Estado     `json:"estado"     binding:"omitnil,enum"`
	Habilitado *model.Habilitado `json:"habilitado" binding:"omitnil,enum"`
}

// IsEmpty reports whether no field was supplied.
func (r *UpdateAgremiadoRequest) IsEmpty() bool {
	return r.Cop == nil && r.Nombres == nil && r.Apellidos == nil &&
		r.Colegio == nil && r.Estado == nil && r.Habilitado == nil
}

// ── Query ──

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 1000
)

// AgremiadoQuery validated list/search parameters.
type AgremiadoQuery struct {
	Q     string
	Page  int
	Limit int
}

// Offset rows skipped before the requested page.
func (q *AgremiadoQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ── Responses ──

// AgremiadoResponse member as exposed by the API
type AgremiadoResponse struct {
	ID                 int64            `json:"id"`
	Cop                string           `json:"cop"`
	Nombres            string           `json:"nombres"`
	Apellidos          string           `json:"apellidos"`
	Colegio            model.Colegio    `json:"colegio"`
	Estado             model.Estado     `json:"estado"`
	Habilitado         model.Habilitado `json:"habilitado"`
	FechaRegistro      time.Time        `json:"fechaRegistro"`
	FechaActualizacion time.Time        `json:"fechaActualizacion"`
}

// AgremiadoPage one page of members plus the unpaged total.
type AgremiadoPage struct {
	Items []AgremiadoResponse
	Total int64
	Page  int
	Limit int
}
