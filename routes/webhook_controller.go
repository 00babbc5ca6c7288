package routes

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/monday-forms/app"
	"github.com/mbolis/monday-forms/httpx"
	"github.com/mbolis/monday-forms/log"
	"github.com/mbolis/monday-forms/model"
	"github.com/mbolis/monday-forms/monday"
)

// ReceiveWebhook creates a form instance for the item named by the trigger.
func ReceiveWebhook(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, ok := model.ParseCategory(chi.URLParam(r, "category"))
		if !ok {
			httpx.LogNotFound(w, r, "webhook.category", chi.URLParam(r, "category"))
			return
		}

		body := map[string]any{}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		// URL verification handshake
		if challenge, ok := body["challenge"]; ok {
			render.JSON(w, r, map[string]any{"challenge": challenge})
			return
		}

		webhook := model.WebhookData(body)
		itemId := webhook.ItemID()
		if itemId == "" {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "webhook.item_id", "missing event.pulseId")
			return
		}

		cfg := app.Configs.Get(r.Context())[category]
		item := lazyItem{board: app.Board, itemId: itemId}

		headerData := headerValues(body)
		for _, h := range cfg.HeaderFields {
			if _, ok := headerData[h.Title]; ok {
				continue
			}
			value, err := item.column(r.Context(), h.MondayColumn)
			if err != nil {
				log.Warnf("webhook.header: item %s column %s: %s", itemId, h.MondayColumn, err)
				continue
			}
			headerData[h.Title] = value
		}

		questions := make([]model.Question, len(cfg.Questions))
		for i, q := range cfg.Questions {
			if q.Type == model.TypeMondayColumn {
				q.ColumnValue = item.columnValue(r.Context(), q.SourceColumn)
			}
			questions[i] = q
		}

		form, err := app.Forms.Create(category, headerData, cfg.HeaderFields, questions, webhook)
		if err != nil {
			httpx.LogInternalError(w, r, "webhook.create_form", err)
			return
		}
		url := app.FormURL(form.ID)
		log.WithFields(log.Fields{
			"form_id":  form.ID,
			"category": category,
			"item_id":  itemId,
			"board_id": webhook.BoardID(),
		}).Info("webhook: form created")

		if cfg.LinkColumn != "" && app.Board != nil && app.Board.Configured() {
			boardId := cfg.BoardA
			if boardId == "" {
				boardId = webhook.BoardID()
			}
			err = app.Board.ChangeColumnValue(r.Context(), boardId, itemId, cfg.LinkColumn, url)
			if err != nil {
				log.Errorf("webhook.link_column: item %s: %s", itemId, err)
			}
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":  form.ID,
			"url": url,
		})
	}
}

// headerValues reads the optional "header_data" object sent with the trigger.
func headerValues(body map[string]any) map[string]string {
	out := map[string]string{}
	raw, _ := body["header_data"].(map[string]any)
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// lazyItem fetches the triggering item at most once, on first use.
type lazyItem struct {
	board  app.Board
	itemId string

	fetched bool
	item    monday.Item
	err     error
}

func (l *lazyItem) get(ctx context.Context) (monday.Item, error) {
	if !l.fetched {
		l.fetched = true
		if l.board == nil || !l.board.Configured() {
			l.err = monday.ErrNotConfigured
		} else {
			l.item, l.err = l.board.Item(ctx, l.itemId)
		}
	}
	return l.item, l.err
}

func (l *lazyItem) column(ctx context.Context, columnId string) (string, error) {
	item, err := l.get(ctx)
	if err != nil {
		return "", err
	}
	if columnId == "name" {
		return item.Name, nil
	}
	return item.Columns[columnId], nil
}

// columnValue resolves the display value of a monday_column question.
func (l *lazyItem) columnValue(ctx context.Context, sourceColumn string) string {
	if strings.TrimSpace(sourceColumn) == "" {
		return model.ColumnValueIncomplete
	}
	value, err := l.column(ctx, strings.TrimSpace(sourceColumn))
	switch {
	case err == monday.ErrNotConfigured:
		return model.ColumnValueUnavailable
	case err != nil:
		log.Warnf("webhook.column_value: item %s column %s: %s", l.itemId, sourceColumn, err)
		return model.ColumnValueLoadError
	case strings.TrimSpace(value) == "":
		return model.ColumnValueNotFound
	}
	return value
}
