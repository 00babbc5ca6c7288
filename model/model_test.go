package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "Sim", NormalizeToken("yes"))
	assert.Equal(t, "Sim", NormalizeToken(" YeS "))
	assert.Equal(t, "Não", NormalizeToken("no"))
	assert.Equal(t, "Não", NormalizeToken("NO"))
	assert.Equal(t, "Talvez", NormalizeToken("  Talvez "))
	assert.Equal(t, "nope", NormalizeToken("nope"))
	assert.Equal(t, "", NormalizeToken("   "))
}

func TestAnswersLookup(t *testing.T) {
	answers := Answers{"a": "x", "b": float64(4), "c": nil, "d": true}

	v, ok := answers.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	v, ok = answers.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, "4", v)

	_, ok = answers.Lookup("c")
	assert.False(t, ok)

	v, _ = answers.Lookup("d")
	assert.Equal(t, "true", v)

	_, ok = answers.Lookup("missing")
	assert.False(t, ok)
}

func TestQuestionOptions(t *testing.T) {
	q := Question{DropdownOptions: "Ótimo; Bom;;Ruim ;"}
	assert.Equal(t, []string{"Ótimo", "Bom", "Ruim"}, q.Options())
	assert.Nil(t, Question{}.Options())
}

func TestQuestionClone(t *testing.T) {
	q := Question{ID: "q", Conditional: &Conditional{DependsOn: "p", ShowIf: Yes}}
	c := q.Clone()
	c.Conditional.ShowIf = No
	assert.Equal(t, Yes, q.Conditional.ShowIf)
}

func TestDocumentNormalize(t *testing.T) {
	doc := Document{Guias: {BoardB: "1"}}.Normalize()

	assert.Len(t, doc, 3)
	assert.Equal(t, "1", doc[Guias].BoardB)
	for _, c := range Categories {
		assert.NotNil(t, doc[c].Questions)
		assert.NotNil(t, doc[c].HeaderFields)
	}
}

func TestWebhookData(t *testing.T) {
	w := WebhookData{"event": map[string]any{"pulseId": float64(1234567890), "pulseName": "Trip", "boardId": "55"}}
	assert.Equal(t, "1234567890", w.ItemID())
	assert.Equal(t, "Trip", w.ItemName())
	assert.Equal(t, "55", w.BoardID())

	assert.Equal(t, "", WebhookData{}.ItemID())
	assert.Equal(t, "", WebhookData{"event": "bad"}.ItemID())

	c := w.Clone()
	c["event"].(map[string]any)["pulseName"] = "Other"
	assert.Equal(t, "Trip", w.ItemName())
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("fornecedores")
	assert.True(t, ok)
	assert.Equal(t, Fornecedores, c)

	_, ok = ParseCategory("Guias")
	assert.False(t, ok)
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(""))
	assert.True(t, IsPlaceholder("Dados não encontrados"))
	assert.True(t, IsPlaceholder(ColumnValueLoadError))
	assert.False(t, IsPlaceholder("João"))
}
