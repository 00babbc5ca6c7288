package model

import "strings"

const (
	Yes = "Sim"
	No  = "Não"
)

// Answers maps question ids to the raw submitted values.
type Answers map[string]any

// Lookup returns the answer for id rendered as a string. Nil values count as
// not answered.
func (a Answers) Lookup(id string) (string, bool) {
	v, ok := a[id]
	if !ok || v == nil {
		return "", false
	}
	return scalarString(v), true
}

// NormalizeToken trims value and maps "yes"/"no" (any case) to "Sim"/"Não".
// Anything else is returned trimmed but otherwise unchanged.
func NormalizeToken(value string) string {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "yes":
		return Yes
	case "no":
		return No
	}
	return value
}
