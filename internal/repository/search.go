package repository

import (
	"strings"

	"padron-agremiados/internal/model"
)

// likeEscape is the ESCAPE character used in every LIKE pattern.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchFilter normalized forms of a free-text query. A member matches when
// its cop contains Text, its uppercased names contain Upper, its folded names
// contain Folded, or its colegio contains Colegio as whole underscore-separated
// words ("lima" matches I_LIMA and III_LIMA_CALLAO, "i lima" only I_LIMA).
type SearchFilter struct {
	Text    string
	Upper   string
	Folded  string
	Colegio model.Colegio
}

// NewSearchFilter derives the filter for q. Empty q yields an empty filter.
func NewSearchFilter(q string) SearchFilter {
	q = strings.TrimSpace(q)
	if q == "" {
		return SearchFilter{}
	}
	return SearchFilter{
		Text:    q,
		Upper:   strings.ToUpper(q),
		Folded:  model.FoldSearchText(q),
		Colegio: model.Colegio(strings.Trim(string(model.ColegioFromQuery(q)), "_")),
	}
}

// IsEmpty reports whether the filter matches everything.
func (f SearchFilter) IsEmpty() bool { return f.Text == "" }

// Matches applies the filter to a record in memory.
func (f SearchFilter) Matches(a *model.Agremiado) bool {
	if f.IsEmpty() {
		return true
	}
	return strings.Contains(a.Cop, f.Text) ||
		strings.Contains(strings.ToUpper(a.Nombres), f.Upper) ||
		strings.Contains(strings.ToUpper(a.Apellidos), f.Upper) ||
		strings.Contains(model.FoldSearchText(a.Nombres), f.Folded) ||
		strings.Contains(model.FoldSearchText(a.Apellidos), f.Folded) ||
		f.matchesColegio(a.Colegio)
}

func (f SearchFilter) matchesColegio(c model.Colegio) bool {
	if f.Colegio == "" {
		return false
	}
	return strings.Contains("_"+string(c)+"_", "_"+string(f.Colegio)+"_")
}

// colegioPattern matches Colegio on word boundaries against "_" || colegio || "_".
func (f SearchFilter) colegioPattern() string {
	return containsPattern("_" + string(f.Colegio) + "_")
}

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
