// Package submission turns the answers of a form instance into the column
// values of one item on the destination board, and pushes them there.
package submission

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/mbolis/monday-forms/model"
)

// Well-known header keys resolved from the triggering item.
const (
	HeaderItemName    = "Viagem"
	HeaderDestination = "Destino"
	HeaderDate        = "Data"
	HeaderClient      = "Cliente"
)

// DefaultItemName names the created item when neither the header nor the
// trigger provide one.
const DefaultItemName = "Resposta do Formulário"

// The destination board template has fixed text columns for the header values.
var headerColumns = []struct {
	key    string
	column string
}{
	{HeaderDestination, "text_mkrb17ct"},
	{HeaderDate, "text_mksq2j87"},
	{HeaderClient, "text_mkrjdnry"},
}

var (
	ErrNoDestination = errors.New("no destination board configured")
	ErrMissingItemID = errors.New("trigger has no item id")
)

// ColumnValues maps destination column ids to the text written there.
type ColumnValues map[string]string

// Payload is everything needed for the single item creation call.
type Payload struct {
	BoardID  string
	ItemName string
	Columns  ColumnValues
}

// Map builds the payload for form from answers, using the live configuration
// of the form's category. It has no side effects.
//
// ErrNoDestination means pushing is switched off for the category.
func Map(form model.FormInstance, answers model.Answers, doc model.Document) (Payload, error) {
	cfg := doc[form.Type]
	boardID := strings.TrimSpace(cfg.BoardB)
	if boardID == "" {
		return Payload{}, ErrNoDestination
	}
	if form.WebhookData.ItemID() == "" {
		return Payload{}, ErrMissingItemID
	}

	payload := Payload{
		BoardID:  boardID,
		ItemName: itemName(form),
		Columns:  ColumnValues{},
	}

	for _, h := range headerColumns {
		if v := form.HeaderData[h.key]; v != "" {
			payload.Columns[h.column] = v
		}
	}

	for _, q := range form.Questions {
		switch q.Type {
		case model.TypeDivider:
			continue

		case model.TypeMondayColumn:
			if answer, ok := answerFor(q, answers); ok {
				if dest := strings.TrimSpace(q.DestinationColumn); dest != "" {
					payload.Columns[dest] = answer
				}
			}
			if dest := strings.TrimSpace(q.QuestionDestinationColumn); dest != "" && !model.IsPlaceholder(q.ColumnValue) {
				payload.Columns[dest] = q.ColumnValue
			}

		default:
			answer, ok := answerFor(q, answers)
			if !ok {
				continue
			}
			if dest := strings.TrimSpace(q.DestinationColumn); dest != "" {
				payload.Columns[dest] = answer
			}
		}
	}

	return payload, nil
}

func itemName(form model.FormInstance) string {
	if name := form.HeaderData[HeaderItemName]; name != "" {
		return name
	}
	if name := form.WebhookData.ItemName(); name != "" {
		return name
	}
	return DefaultItemName
}

// answerFor returns the normalized answer to q, or false when q was left
// blank.
func answerFor(q model.Question, answers model.Answers) (string, bool) {
	if q.ID == "" {
		return "", false
	}
	raw, ok := answers.Lookup(q.ID)
	if !ok {
		return "", false
	}
	answer := model.NormalizeToken(raw)
	if answer == "" {
		return "", false
	}
	return answer, true
}
