package configstore

import (
	"context"
	"sync"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/mbolis/monday-forms/log"
	"github.com/mbolis/monday-forms/model"
)

// WarningMemoryOnly is returned by Save when the document could only be kept
// in memory.
const WarningMemoryOnly = "Configuration saved to memory only. Changes will not persist across deployments."

// Cache holds the last document read from a Store together with the store
// version it was read at. Get re-reads the store only when its version moved.
//
// The cache makes no isolation promises: concurrent saves are last write wins.
type Cache struct {
	store     Store
	bootstrap model.Document

	mu      sync.Mutex
	data    model.Document
	version Version
	filled  bool
}

// NewCache wraps store. bootstrap, if not nil, replaces the empty default
// whenever the store has no readable document.
func NewCache(store Store, bootstrap model.Document) *Cache {
	return &Cache{store: store, bootstrap: bootstrap}
}

// Get returns a copy of the current document. It never fails: a missing or
// unreadable document yields the fallback configuration.
func (c *Cache) Get(ctx context.Context) model.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	version, err := c.store.Stat(ctx)
	switch {
	case errors.Is(err, ErrNotExist):
		if !c.filled {
			log.Warn("configstore.get: no configuration document, using default configuration")
			c.fill(c.fallback(), 0)
		}
		return c.data.Clone()
	case err != nil:
		log.Errorf("configstore.get.stat: %s", err)
		if c.filled {
			return c.data.Clone()
		}
		return c.fallback()
	}

	if c.filled && version == c.version {
		return c.data.Clone()
	}

	raw, version, err := c.store.Read(ctx)
	if err != nil {
		log.Errorf("configstore.get.read: %s", err)
		c.fill(c.fallback(), version)
		return c.data.Clone()
	}

	doc, err := Decode(raw)
	if err != nil {
		log.Errorf("configstore.get.parse: %s", err)
		c.fill(c.fallback(), version)
		return c.data.Clone()
	}

	log.Info("configstore.get: configuration loaded")
	c.fill(doc, version)
	return c.data.Clone()
}

// Save validates doc and replaces the stored document with it. When the
// store cannot be written the document is kept in memory only and a warning
// is returned for the administrative caller.
func (c *Cache) Save(ctx context.Context, doc model.Document) (warning string, err error) {
	doc = doc.Normalize()
	if err = model.ValidateDocument(doc); err != nil {
		return "", err
	}

	raw, err := Encode(doc)
	if err != nil {
		return "", errors.Wrap(err, "configstore.save.encode")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	version, err := c.store.Write(ctx, raw)
	if err != nil {
		if errors.Is(err, ErrReadOnly) {
			log.Warnf("configstore.save: %s", WarningMemoryOnly)
		} else {
			log.Errorf("configstore.save.write: %s", err)
		}
		// keep the memory copy until the store itself changes
		version, statErr := c.store.Stat(ctx)
		if statErr != nil {
			version = 0
		}
		c.fill(doc, version)
		return WarningMemoryOnly, nil
	}

	c.fill(doc, version)
	return "", nil
}

// Invalidate drops the cached copy, including one held only in memory.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.filled = false
	c.data = nil
	c.mu.Unlock()
}

func (c *Cache) Reload(ctx context.Context) model.Document {
	c.Invalidate()
	return c.Get(ctx)
}

func (c *Cache) fill(doc model.Document, version Version) {
	c.data = doc.Normalize().Clone()
	c.version = version
	c.filled = true
}

func (c *Cache) fallback() model.Document {
	if c.bootstrap != nil {
		return c.bootstrap.Normalize().Clone()
	}
	return model.DefaultDocument()
}

func Decode(raw []byte) (model.Document, error) {
	doc := model.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc.Normalize(), nil
}

func Encode(doc model.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// ParseBootstrap decodes a document given inline, e.g. through the
// environment. An empty string yields a nil document.
func ParseBootstrap(raw string) (model.Document, error) {
	if raw == "" {
		return nil, nil
	}
	doc, err := Decode([]byte(raw))
	if err != nil {
		return nil, errors.Wrap(err, "configstore.bootstrap")
	}
	return doc, nil
}
