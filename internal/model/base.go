package model

import "time"

// RegistroModel audit timestamps shared by registry tables.
// FechaRegistro is written once on insert; FechaActualizacion on every mutation.
type RegistroModel struct {
	FechaRegistro      time.Time `gorm:"column:fecha_registro;not null;index"   json:"fechaRegistro"`
	FechaActualizacion time.Time `gorm:"column:fecha_actualizacion;not null"    json:"fechaActualizacion"`
}

// Stamp sets both timestamps for a new row.
func (m *RegistroModel) Stamp(now time.Time) {
	m.FechaRegistro = now
	m.FechaActualizacion = now
}

// NextUpdate returns the timestamp for the next mutation of a row last touched at prev.
// The result is strictly after prev even when the clock has not advanced at the
// database's microsecond resolution.
func NextUpdate(prev, now time.Time) time.Time {
	now = now.Truncate(time.Microsecond)
	if !now.After(prev) {
		return prev.Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return now
}
