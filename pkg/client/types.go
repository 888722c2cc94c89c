package client

import "time"

// Agremiado a member as served by the API.
type Agremiado struct {
	ID                 int64     `json:"id"`
	Cop                string    `json:"cop"`
	Nombres            string    `json:"nombres"`
	Apellidos          string    `json:"apellidos"`
	Colegio            string    `json:"colegio"`
	Estado             string    `json:"estado"`
	Habilitado         string    `json:"habilitado"`
	FechaRegistro      time.Time `json:"fechaRegistro"`
	FechaActualizacion time.Time `json:"fechaActualizacion"`
}

// NombreCompleto "NOMBRES APELLIDOS"
func (a Agremiado) NombreCompleto() string {
	return a.Nombres + " " + a.Apellidos
}

// Page one page of a listing or search.
type Page struct {
	Data       []Agremiado `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

// CreateInput body of a create call. Empty Estado/Habilitado take the
// server defaults.
type CreateInput struct {
	Cop        string `json:"cop"`
	Nombres    string `json:"nombres"`
	Apellidos  string `json:"apellidos"`
	Colegio    string `json:"colegio"`
	Estado     string `json:"estado,omitempty"`
	Habilitado string `json:"habilitado,omitempty"`
}

// UpdateInput partial update; nil fields are left untouched.
type UpdateInput struct {
	Nombres    *string `json:"nombres,omitempty"`
	Apellidos  *string `json:"apellidos,omitempty"`
	Colegio    *string `json:"colegio,omitempty"`
	Estado     *string `json:"estado,omitempty"`
	Habilitado *string `json:"habilitado,omitempty"`
}
