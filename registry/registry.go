// Package registry keeps the generated form instances in memory. Nothing is
// persisted: instances are lost when the process restarts.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/mbolis/monday-forms/model"
)

type Registry struct {
	mu    sync.RWMutex
	forms map[string]model.FormInstance
	now   func() time.Time
}

func New() *Registry {
	return &Registry{
		forms: make(map[string]model.FormInstance),
		now:   time.Now,
	}
}

// Create stores a new instance. All inputs are copied, so later edits to the
// configuration the questions came from do not reach the instance.
func (r *Registry) Create(
	category model.Category,
	headerData map[string]string,
	headerFields []model.HeaderField,
	questions []model.Question,
	webhookData model.WebhookData,
) (model.FormInstance, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return model.FormInstance{}, errors.Wrap(err, "registry.new_id")
	}

	form := model.FormInstance{
		ID:           id.String(),
		Type:         category,
		HeaderData:   make(map[string]string, len(headerData)),
		HeaderFields: append([]model.HeaderField{}, headerFields...),
		Questions:    make([]model.Question, len(questions)),
		WebhookData:  webhookData.Clone(),
		CreatedAt:    r.now(),
	}
	for k, v := range headerData {
		form.HeaderData[k] = v
	}
	for i, q := range questions {
		q = q.Clone()
		q.IsConditional = q.HasConditional()
		form.Questions[i] = q
	}

	r.mu.Lock()
	r.forms[form.ID] = form
	r.mu.Unlock()

	return cloneInstance(form), nil
}

func (r *Registry) Get(id string) (model.FormInstance, bool) {
	r.mu.RLock()
	form, ok := r.forms[id]
	r.mu.RUnlock()
	if !ok {
		return model.FormInstance{}, false
	}
	return cloneInstance(form), true
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[id]; !ok {
		return false
	}
	delete(r.forms, id)
	return true
}

// List returns every live instance, oldest first.
func (r *Registry) List() []model.FormInstance {
	r.mu.RLock()
	forms := make([]model.FormInstance, 0, len(r.forms))
	for _, f := range r.forms {
		forms = append(forms, cloneInstance(f))
	}
	r.mu.RUnlock()

	sort.Slice(forms, func(i, j int) bool {
		if forms[i].CreatedAt.Equal(forms[j].CreatedAt) {
			return forms[i].ID < forms[j].ID
		}
		return forms[i].CreatedAt.Before(forms[j].CreatedAt)
	})
	return forms
}

func cloneInstance(f model.FormInstance) model.FormInstance {
	header := make(map[string]string, len(f.HeaderData))
	for k, v := range f.HeaderData {
		header[k] = v
	}
	f.HeaderData = header
	f.HeaderFields = append([]model.HeaderField{}, f.HeaderFields...)
	questions := make([]model.Question, len(f.Questions))
	for i, q := range f.Questions {
		questions[i] = q.Clone()
	}
	f.Questions = questions
	f.WebhookData = f.WebhookData.Clone()
	return f
}
