package configstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/monday-forms/model"
)

func sampleDoc() model.Document {
	doc := model.DefaultDocument()
	doc[model.Guias] = model.FormTypeConfig{
		BoardA:       "100",
		BoardB:       "200",
		LinkColumn:   "link",
		HeaderFields: []model.HeaderField{{Title: "Viagem", MondayColumn: "name"}},
		Questions: []model.Question{
			{ID: "q1", Type: model.TypeYesNo, Text: "Gostou?", Required: true, DestinationColumn: "status"},
			{ID: "q2", Type: model.TypeLongText, DestinationColumn: "why", Conditional: &model.Conditional{DependsOn: "q1", ShowIf: model.No}},
		},
	}
	return doc
}

func TestCache_MissingFileReturnsDefault(t *testing.T) {
	c := NewCache(NewFileStore(filepath.Join(t.TempDir(), "setup", "config.json"), false), nil)
	assert.Equal(t, model.DefaultDocument(), c.Get(context.Background()))
}

func TestCache_MalformedFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := NewCache(NewFileStore(path, false), nil)
	assert.Equal(t, model.DefaultDocument(), c.Get(context.Background()))
}

func TestCache_BootstrapFallback(t *testing.T) {
	bootstrap, err := ParseBootstrap(`{"clientes": {"board_b": "9"}}`)
	require.NoError(t, err)

	c := NewCache(NewMemoryStore(), bootstrap)
	doc := c.Get(context.Background())
	assert.Equal(t, "9", doc[model.Clientes].BoardB)
	assert.Len(t, doc, 3)

	_, err = ParseBootstrap("{")
	assert.Error(t, err)
	empty, err := ParseBootstrap("")
	assert.NoError(t, err)
	assert.Nil(t, empty)
}

func TestCache_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "setup", "config.json")
	c := NewCache(NewFileStore(path, false), nil)
	c.Get(ctx)

	warning, err := c.Save(ctx, sampleDoc())
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, sampleDoc(), c.Get(ctx))

	// a fresh cache reads the same document back from disk
	fresh := NewCache(NewFileStore(path, false), nil)
	assert.Equal(t, sampleDoc(), fresh.Get(ctx))
}

func TestCache_ReloadsWhenStoreChanges(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewFileStore(path, false)
	c := NewCache(store, nil)

	_, err := c.Save(ctx, sampleDoc())
	require.NoError(t, err)

	raw, err := Encode(model.DefaultDocument())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	assert.Equal(t, model.DefaultDocument(), c.Get(ctx))
}

func TestCache_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewCache(NewMemoryStore(), nil)
	_, err := c.Save(ctx, sampleDoc())
	require.NoError(t, err)

	doc := c.Get(ctx)
	doc[model.Guias].Questions[0].Text = "changed"

	assert.Equal(t, "Gostou?", c.Get(ctx)[model.Guias].Questions[0].Text)
}

func TestCache_SaveAcceptsConditionalOnLaterQuestion(t *testing.T) {
	ctx := context.Background()
	c := NewCache(NewMemoryStore(), nil)

	doc := sampleDoc()
	cfg := doc[model.Guias]
	cfg.Questions = []model.Question{
		{ID: "q1", Type: model.TypeText, DestinationColumn: "why", Conditional: &model.Conditional{DependsOn: "q2", ShowIf: model.Yes}},
		{ID: "q2", Type: model.TypeYesNo, DestinationColumn: "status"},
	}
	doc[model.Guias] = cfg

	_, err := c.Save(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, doc, c.Get(ctx))
}

func TestCache_SaveRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	c := NewCache(NewMemoryStore(), nil)

	doc := sampleDoc()
	cfg := doc[model.Guias]
	cfg.Questions = append(cfg.Questions, model.Question{ID: "q1", Type: model.TypeText, DestinationColumn: "x"})
	doc[model.Guias] = cfg

	_, err := c.Save(ctx, doc)
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
	assert.Equal(t, model.DefaultDocument(), c.Get(ctx))
}

func TestCache_ReadOnlyKeepsMemoryCopy(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "config.json")
	c := NewCache(NewFileStore(path, true), nil)

	warning, err := c.Save(ctx, sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, WarningMemoryOnly, warning)
	assert.Equal(t, sampleDoc(), c.Get(ctx))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// reload drops the memory-only copy
	assert.Equal(t, model.DefaultDocument(), c.Reload(ctx))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Stat(ctx)
	assert.ErrorIs(t, err, ErrNotExist)
	_, _, err = s.Read(ctx)
	assert.ErrorIs(t, err, ErrNotExist)

	v1, err := s.Write(ctx, []byte("a"))
	require.NoError(t, err)
	v2, err := s.Write(ctx, []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)

	data, v, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), data)
	assert.Equal(t, v2, v)
}
