package submission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mbolis/monday-forms/model"
)

type staticConfig model.Document

func (s staticConfig) Get(ctx context.Context) model.Document {
	return model.Document(s)
}

type createCall struct {
	BoardID  string
	ItemName string
	Columns  map[string]string
}

type fakeCreator struct {
	mu    sync.Mutex
	calls []createCall
	err   error
	delay time.Duration
}

func (f *fakeCreator) CreateItemWithValues(ctx context.Context, boardID, itemName string, columns map[string]string) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, createCall{boardID, itemName, columns})
	if f.err != nil {
		return "", f.err
	}
	return "new-1", nil
}

func (f *fakeCreator) Calls() []createCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]createCall{}, f.calls...)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDispatcher_Process(t *testing.T) {
	q1 := model.Question{ID: "q1", Type: model.TypeYesNo, DestinationColumn: "status_col"}
	creator := &fakeCreator{}
	d := NewDispatcher(staticConfig(guiasDoc(q1)), creator, time.Second)
	defer d.Close()

	form := guiasForm(map[string]string{"Viagem": "Trip A"}, q1)
	err := d.Process(context.Background(), form, model.Answers{"q1": "no"})
	require.NoError(t, err)

	assert.Equal(t, []createCall{{"123", "Trip A", map[string]string{"status_col": "Não"}}}, creator.Calls())
}

func TestDispatcher_ProcessErrors(t *testing.T) {
	creator := &fakeCreator{err: errors.New("boom")}
	d := NewDispatcher(staticConfig(guiasDoc()), creator, time.Second)
	defer d.Close()

	err := d.Process(context.Background(), guiasForm(nil), nil)
	assert.ErrorContains(t, err, "boom")

	err = d.Process(context.Background(), model.FormInstance{Type: model.Clientes}, nil)
	assert.ErrorIs(t, err, ErrNoDestination)
	assert.Len(t, creator.Calls(), 1)
}

func TestDispatcher_DispatchKeepsOrder(t *testing.T) {
	q := model.Question{ID: "q", Type: model.TypeText, DestinationColumn: "c"}
	creator := &fakeCreator{delay: time.Millisecond}
	d := NewDispatcher(staticConfig(guiasDoc(q)), creator, time.Second)

	want := []string{"1", "2", "3", "4", "5"}
	for _, v := range want {
		require.NoError(t, d.Dispatch(guiasForm(nil, q), model.Answers{"q": v}))
	}
	d.Close()

	calls := creator.Calls()
	require.Len(t, calls, len(want))
	for i, v := range want {
		assert.Equal(t, v, calls[i].Columns["c"])
	}
}

func TestDispatcher_DispatchAfterClose(t *testing.T) {
	d := NewDispatcher(staticConfig(guiasDoc()), &fakeCreator{}, 0)
	d.Close()
	d.Close()

	assert.ErrorIs(t, d.Dispatch(guiasForm(nil), nil), ErrClosed)
}
