package validation

// field -> validator tag -> message
var fieldMessages = map[string]map[string]string{
	"cop": {
		"required":  "El número COP es requerido",
		"number":    "El COP debe contener solo números",
		"max":       "El COP no puede exceder 32 dígitos",
		"inmutable": "El número COP no puede modificarse",
	},
	"nombres": {
		"required": "Los nombres son requeridos",
		"min":      "Los nombres deben tener al menos 2 caracteres",
		"max":      "Los nombres no pueden exceder 100 caracteres",
	},
	"apellidos": {
		"required": "Los apellidos son requeridos",
		"min":      "Los apellidos son requeridos",
		"max":      "Los apellidos no pueden exceder 100 caracteres",
	},
	"colegio": {
		"required": "El colegio regional es requerido",
		"enum":     "Colegio regional inválido",
	},
	"estado": {
		"enum": "Estado inválido",
	},
	"habilitado": {
		"enum": "Valor de habilitado inválido",
	},
	"page": {
		"min": "La página debe ser un número entero positivo",
		"max": "La página solicitada está fuera de rango",
	},
	"limit": {
		"min": "El límite debe ser un número entero positivo",
		"max": "El límite no puede exceder 1000 registros",
	},
}

func messageFor(field, tag string) string {
	if byTag, ok := fieldMessages[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
	}
	return "Valor inválido"
}

// MessageFor exposes the message table to callers outside the binding path.
func MessageFor(field, tag string) string { return messageFor(field, tag) }
