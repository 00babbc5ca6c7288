// Package monday is a thin client for the monday.com GraphQL API, limited to
// the calls the forms need.
package monday

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const DefaultURL = "https://api.monday.com/v2"

var ErrNotConfigured = errors.New("monday: no API token configured")

type Client struct {
	URL   string
	Token string
	HTTP  *http.Client
}

func NewClient(url, token string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		URL:   url,
		Token: token,
		HTTP:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.Token != ""
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	ErrorMessage string `json:"error_message"`
}

func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return errors.Wrap(err, "monday.encode")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "monday.new_request")
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("authorization", c.Token)
	req.Header.Set("api-version", "2024-01")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrap(err, "monday.do")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "monday.read_body")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("monday: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var res response
	if err = json.Unmarshal(raw, &res); err != nil {
		return errors.Wrap(err, "monday.decode")
	}
	if len(res.Errors) > 0 {
		msgs := make([]string, len(res.Errors))
		for i, e := range res.Errors {
			msgs[i] = e.Message
		}
		return errors.Errorf("monday: %s", strings.Join(msgs, "; "))
	}
	if res.ErrorMessage != "" {
		return errors.Errorf("monday: %s", res.ErrorMessage)
	}
	if out != nil {
		if err = json.Unmarshal(res.Data, out); err != nil {
			return errors.Wrap(err, "monday.decode_data")
		}
	}
	return nil
}

const createItemQuery = `mutation ($board: ID!, $name: String!, $values: JSON) {
	create_item(board_id: $board, item_name: $name, column_values: $values) { id }
}`

// CreateItemWithValues creates one item on boardID with every column value
// set in the same call, and returns the new item's id.
func (c *Client) CreateItemWithValues(ctx context.Context, boardID, itemName string, columns map[string]string) (string, error) {
	values, err := json.Marshal(columns)
	if err != nil {
		return "", errors.Wrap(err, "monday.create_item.encode_values")
	}

	var data struct {
		CreateItem struct {
			ID string `json:"id"`
		} `json:"create_item"`
	}
	err = c.do(ctx, createItemQuery, map[string]any{
		"board":  boardID,
		"name":   itemName,
		"values": string(values),
	}, &data)
	if err != nil {
		return "", err
	}
	if data.CreateItem.ID == "" {
		return "", errors.New("monday: create_item returned no id")
	}
	return data.CreateItem.ID, nil
}

const itemQuery = `query ($ids: [ID!]) {
	items(ids: $ids) { id name column_values { id text } }
}`

// Item is a board item with the text rendering of its columns.
type Item struct {
	ID      string
	Name    string
	Columns map[string]string
}

func (c *Client) Item(ctx context.Context, itemID string) (Item, error) {
	var data struct {
		Items []struct {
			ID           string `json:"id"`
			Name         string `json:"name"`
			ColumnValues []struct {
				ID   string  `json:"id"`
				Text *string `json:"text"`
			} `json:"column_values"`
		} `json:"items"`
	}
	err := c.do(ctx, itemQuery, map[string]any{"ids": []string{itemID}}, &data)
	if err != nil {
		return Item{}, err
	}
	if len(data.Items) == 0 {
		return Item{}, errors.Errorf("monday: item %s not found", itemID)
	}

	src := data.Items[0]
	item := Item{ID: src.ID, Name: src.Name, Columns: make(map[string]string, len(src.ColumnValues))}
	for _, cv := range src.ColumnValues {
		if cv.Text != nil {
			item.Columns[cv.ID] = *cv.Text
		} else {
			item.Columns[cv.ID] = ""
		}
	}
	return item, nil
}

const changeValueQuery = `mutation ($board: ID!, $item: ID!, $column: String!, $value: String) {
	change_simple_column_value(board_id: $board, item_id: $item, column_id: $column, value: $value) { id }
}`

func (c *Client) ChangeColumnValue(ctx context.Context, boardID, itemID, columnID, value string) error {
	return c.do(ctx, changeValueQuery, map[string]any{
		"board":  boardID,
		"item":   itemID,
		"column": columnID,
		"value":  value,
	}, nil)
}
