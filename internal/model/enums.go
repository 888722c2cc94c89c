package model

import "strings"

// ── Colegio regional ──

// Colegio regional chapter a member belongs to.
type Colegio string

const (
	ColegioILima         Colegio = "I_LIMA"
	ColegioIIArequipa    Colegio = "II_AREQUIPA"
	ColegioIIILimaCallao Colegio = "III_LIMA_CALLAO"
	ColegioIVTrujillo    Colegio = "IV_TRUJILLO"
	ColegioVPiura        Colegio = "V_PIURA"
	ColegioVICusco       Colegio = "VI_CUSCO"
)

// Colegios lists every chapter in display order.
var Colegios = []Colegio{
	ColegioILima,
	ColegioIIArequipa,
	ColegioIIILimaCallao,
	ColegioIVTrujillo,
	ColegioVPiura,
	ColegioVICusco,
}

var colegioLabels = map[Colegio]string{
	ColegioILima:         "I LIMA",
	ColegioIIArequipa:    "II AREQUIPA",
	ColegioIIILimaCallao: "III LIMA-CALLAO",
	ColegioIVTrujillo:    "IV TRUJILLO",
	ColegioVPiura:        "V PIURA",
	ColegioVICusco:       "VI CUSCO",
}

func (c Colegio) IsValid() bool {
	_, ok := colegioLabels[c]
	return ok
}

// Label human readable chapter name, e.g. "III LIMA-CALLAO".
func (c Colegio) Label() string {
	if l, ok := colegioLabels[c]; ok {
		return l
	}
	return FormatEnumValue(string(c))
}

// ── Estado ──

// Estado membership standing.
type Estado string

const (
	EstadoActivo     Estado = "ACTIVO"
	EstadoInactivo   Estado = "INACTIVO"
	EstadoSuspendido Estado = "SUSPENDIDO"
	EstadoRetirado   Estado = "RETIRADO"
)

var Estados = []Estado{EstadoActivo, EstadoInactivo, EstadoSuspendido, EstadoRetirado}

func (e Estado) IsValid() bool {
	switch e {
	case EstadoActivo, EstadoInactivo, EstadoSuspendido, EstadoRetirado:
		return true
	}
	return false
}

func (e Estado) Label() string { return titleLabel(string(e)) }

// ── Habilitado ──

// Habilitado practice authorization flag, independent of Estado.
type Habilitado string

const (
	HabilitadoActivo   Habilitado = "ACTIVO"
	HabilitadoInactivo Habilitado = "INACTIVO"
)

var Habilitados = []Habilitado{HabilitadoActivo, HabilitadoInactivo}

func (h Habilitado) IsValid() bool {
	return h == HabilitadoActivo || h == HabilitadoInactivo
}

func (h Habilitado) Label() string { return titleLabel(string(h)) }

// ── helpers ──

// FormatEnumValue renders an enum literal for display: I_LIMA -> "I LIMA".
func FormatEnumValue(v string) string {
	return strings.ReplaceAll(v, "_", " ")
}

// ColegioFromQuery maps free text to the enum literal form (uppercase, spaces to
// underscores). The result is not guaranteed to be a valid Colegio.
func ColegioFromQuery(q string) Colegio {
	return Colegio(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(q)), " ", "_"))
}

func titleLabel(v string) string {
	if v == "" {
		return ""
	}
	lower := strings.ToLower(v)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
