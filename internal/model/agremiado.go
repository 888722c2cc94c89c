package model

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Agremiado is a row of the agremiados table.
type Agremiado struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"              json:"id"`
	Cop        string     `gorm:"type:varchar(32);not null;uniqueIndex" json:"cop"`
	Nombres    string     `gorm:"type:varchar(100);not null"            json:"nombres"`
	Apellidos  string     `gorm:"type:varchar(100);not null"            json:"apellidos"`
	Colegio    Colegio    `gorm:"type:varchar(20);not null;index"       json:"colegio"`
	Estado     Estado     `gorm:"type:varchar(20);not null"             json:"estado"`
	Habilitado Habilitado `gorm:"type:varchar(20);not null"             json:"habilitado"`

	// accent-folded copies of Nombres/Apellidos used by search
	NombresBusqueda   string `gorm:"type:varchar(100);not null;default:''" json:"-"`
	ApellidosBusqueda string `gorm:"type:varchar(100);not null;default:''" json:"-"`

	RegistroModel
}

// TableName agremiados
func (Agremiado) TableName() string { return "agremiados" }

// NombreCompleto "NOMBRES APELLIDOS"
func (a *Agremiado) NombreCompleto() string {
	return strings.TrimSpace(a.Nombres + " " + a.Apellidos)
}

// RefreshSearchKeys recomputes the folded search columns from the display names.
func (a *Agremiado) RefreshSearchKeys() {
	a.NombresBusqueda = FoldSearchText(a.Nombres)
	a.ApellidosBusqueda = FoldSearchText(a.Apellidos)
}

// FoldSearchText uppercases s and strips diacritics: "Pérez" -> "PEREZ".
func FoldSearchText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(folded)
}

// AgremiadoPatch partial update. Nil fields are left untouched; the update
// timestamp is always written.
type AgremiadoPatch struct {
	Nombres            *string
	Apellidos          *string
	Colegio            *Colegio
	Estado             *Estado
	Habilitado         *Habilitado
	FechaActualizacion time.Time
}

// Columns column -> value map for the supplied fields, including the derived
// search columns.
func (p *AgremiadoPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{
		"fecha_actualizacion": p.FechaActualizacion,
	}
	if p.Nombres != nil {
		cols["nombres"] = *p.Nombres
		cols["nombres_busqueda"] = FoldSearchText(*p.Nombres)
	}
	if p.Apellidos != nil {
		cols["apellidos"] = *p.Apellidos
		cols["apellidos_busqueda"] = FoldSearchText(*p.Apellidos)
	}
	if p.Colegio != nil {
		cols["colegio"] = *p.Colegio
	}
	if p.Estado != nil {
		cols["estado"] = *p.Estado
	}
	if p.Habilitado != nil {
		cols["habilitado"] = *p.Habilitado
	}
	return cols
}

// Apply copies the supplied fields onto a.
func (p *AgremiadoPatch) Apply(a *Agremiado) {
	if p.Nombres != nil {
		a.Nombres = *p.Nombres
	}
	if p.Apellidos != nil {
		a.Apellidos = *p.Apellidos
	}
	if p.Colegio != nil {
		a.Colegio = *p.Colegio
	}
	if p.Estado != nil {
		a.Estado = *p.Estado
	}
	if p.Habilitado != nil {
		a.Habilitado = *p.Habilitado
	}
	a.FechaActualizacion = p.FechaActualizacion
	a.RefreshSearchKeys()
}
