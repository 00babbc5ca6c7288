package monday

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	Auth      string
	Query     string
	Variables map[string]any
}

func fakeAPI(t *testing.T, reply string, status int) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var req request
		assert.NoError(t, json.Unmarshal(body, &req))
		got.Auth = r.Header.Get("authorization")
		got.Query = req.Query
		got.Variables = req.Variables

		w.WriteHeader(status)
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestCreateItemWithValues(t *testing.T) {
	srv, got := fakeAPI(t, `{"data": {"create_item": {"id": "777"}}}`, http.StatusOK)
	c := NewClient(srv.URL, "tok")

	id, err := c.CreateItemWithValues(context.Background(), "123", "Trip A", map[string]string{"status_col": "Não"})
	require.NoError(t, err)
	assert.Equal(t, "777", id)

	assert.Equal(t, "tok", got.Auth)
	assert.Contains(t, got.Query, "create_item")
	assert.Equal(t, "123", got.Variables["board"])
	assert.Equal(t, "Trip A", got.Variables["name"])
	assert.JSONEq(t, `{"status_col": "Não"}`, got.Variables["values"].(string))
}

func TestCreateItemWithValues_GraphQLError(t *testing.T) {
	srv, _ := fakeAPI(t, `{"errors": [{"message": "bad column"}, {"message": "bad board"}]}`, http.StatusOK)
	c := NewClient(srv.URL, "tok")

	_, err := c.CreateItemWithValues(context.Background(), "1", "x", nil)
	assert.EqualError(t, err, "monday: bad column; bad board")
}

func TestCreateItemWithValues_HTTPError(t *testing.T) {
	srv, _ := fakeAPI(t, `unauthorized`, http.StatusUnauthorized)
	c := NewClient(srv.URL, "tok")

	_, err := c.CreateItemWithValues(context.Background(), "1", "x", nil)
	assert.EqualError(t, err, "monday: status 401: unauthorized")
}

func TestItem(t *testing.T) {
	srv, got := fakeAPI(t, `{"data": {"items": [{"id": "99", "name": "Trip A", "column_values": [
		{"id": "dest", "text": "Lisboa"},
		{"id": "empty", "text": null}
	]}]}}`, http.StatusOK)
	c := NewClient(srv.URL, "tok")

	item, err := c.Item(context.Background(), "99")
	require.NoError(t, err)
	assert.Equal(t, Item{ID: "99", Name: "Trip A", Columns: map[string]string{"dest": "Lisboa", "empty": ""}}, item)
	assert.Equal(t, []any{"99"}, got.Variables["ids"])
}

func TestItem_NotFound(t *testing.T) {
	srv, _ := fakeAPI(t, `{"data": {"items": []}}`, http.StatusOK)
	c := NewClient(srv.URL, "tok")

	_, err := c.Item(context.Background(), "99")
	assert.EqualError(t, err, "monday: item 99 not found")
}

func TestChangeColumnValue(t *testing.T) {
	srv, got := fakeAPI(t, `{"data": {"change_simple_column_value": {"id": "99"}}}`, http.StatusOK)
	c := NewClient(srv.URL, "tok")

	err := c.ChangeColumnValue(context.Background(), "1", "99", "link", "http://x/form/abc")
	require.NoError(t, err)
	assert.Equal(t, "link", got.Variables["column"])
	assert.Equal(t, "http://x/form/abc", got.Variables["value"])
}

func TestNotConfigured(t *testing.T) {
	c := NewClient("", "")
	assert.Equal(t, DefaultURL, c.URL)
	assert.False(t, c.Configured())

	_, err := c.CreateItemWithValues(context.Background(), "1", "x", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	var nilClient *Client
	assert.False(t, nilClient.Configured())
}
