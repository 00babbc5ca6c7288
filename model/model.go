package model

import (
	"strings"
	"time"
)

type Category string

const (
	Guias        Category = "guias"
	Clientes     Category = "clientes"
	Fornecedores Category = "fornecedores"
)

// Categories lists every form category in display order.
var Categories = []Category{Guias, Clientes, Fornecedores}

func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type QuestionType string

const (
	TypeText         QuestionType = "text"
	TypeLongText     QuestionType = "longtext"
	TypeYesNo        QuestionType = "yesno"
	TypeRating       QuestionType = "rating"
	TypeDropdown     QuestionType = "dropdown"
	TypeMondayColumn QuestionType = "monday_column"
	TypeDivider      QuestionType = "divider"
)

type Conditional struct {
	DependsOn string `json:"depends_on"`
	ShowIf    string `json:"show_if" validate:"omitempty,oneof=Sim Não"`
}

type Question struct {
	ID       string       `json:"id,omitempty" validate:"required_unless=Type divider"`
	Type     QuestionType `json:"type" validate:"required,oneof=text longtext yesno rating dropdown monday_column divider"`
	Text     string       `json:"text"`
	Required bool         `json:"required"`
	Title    string       `json:"title,omitempty"`

	// semicolon separated, see Options
	DropdownOptions string `json:"dropdown_options,omitempty"`

	SourceColumn              string `json:"source_column,omitempty"`
	DestinationColumn         string `json:"destination_column,omitempty"`
	QuestionDestinationColumn string `json:"question_destination_column,omitempty"`

	// Resolved from SourceColumn when a form instance is created.
	ColumnValue string `json:"column_value,omitempty"`

	Conditional   *Conditional `json:"conditional,omitempty"`
	IsConditional bool         `json:"is_conditional,omitempty"`
}

// Options returns the parsed dropdown options, in order, skipping blanks.
func (q Question) Options() []string {
	var opts []string
	for _, o := range strings.Split(q.DropdownOptions, ";") {
		if o = strings.TrimSpace(o); o != "" {
			opts = append(opts, o)
		}
	}
	return opts
}

func (q Question) HasConditional() bool {
	return q.Conditional != nil && q.Conditional.DependsOn != ""
}

func (q Question) Clone() Question {
	if q.Conditional != nil {
		c := *q.Conditional
		q.Conditional = &c
	}
	return q
}

type HeaderField struct {
	Title        string `json:"title" validate:"required"`
	MondayColumn string `json:"monday_column" validate:"required"`
}

type FormTypeConfig struct {
	BoardA       string        `json:"board_a"`
	BoardB       string        `json:"board_b"`
	LinkColumn   string        `json:"link_column"`
	HeaderFields []HeaderField `json:"header_fields"`
	Questions    []Question    `json:"questions"`
}

// MaxHeaderFields is the number of header slots per category.
const MaxHeaderFields = 4

func (cfg FormTypeConfig) Clone() FormTypeConfig {
	cfg.HeaderFields = append([]HeaderField{}, cfg.HeaderFields...)
	questions := make([]Question, len(cfg.Questions))
	for i, q := range cfg.Questions {
		questions[i] = q.Clone()
	}
	cfg.Questions = questions
	return cfg
}

// Document is the whole persisted configuration, one entry per category.
type Document map[Category]FormTypeConfig

func DefaultDocument() Document {
	doc := Document{}
	for _, c := range Categories {
		doc[c] = FormTypeConfig{HeaderFields: []HeaderField{}, Questions: []Question{}}
	}
	return doc
}

// Normalize fills in missing categories and nil slices.
func (doc Document) Normalize() Document {
	out := Document{}
	for c, cfg := range doc {
		out[c] = cfg
	}
	for _, c := range Categories {
		cfg := out[c]
		if cfg.HeaderFields == nil {
			cfg.HeaderFields = []HeaderField{}
		}
		if cfg.Questions == nil {
			cfg.Questions = []Question{}
		}
		out[c] = cfg
	}
	return out
}

func (doc Document) Clone() Document {
	out := make(Document, len(doc))
	for c, cfg := range doc {
		out[c] = cfg.Clone()
	}
	return out
}

type FormInstance struct {
	ID           string            `json:"id"`
	Type         Category          `json:"type"`
	HeaderData   map[string]string `json:"header_data"`
	HeaderFields []HeaderField     `json:"header_fields"`
	Questions    []Question        `json:"questions"`
	WebhookData  WebhookData       `json:"webhook_data"`
	CreatedAt    time.Time         `json:"created_at"`
}

// FormSummary is the administrative listing view of a FormInstance.
type FormSummary struct {
	ID         string            `json:"id"`
	Type       Category          `json:"type"`
	CreatedAt  time.Time         `json:"created_at"`
	HeaderData map[string]string `json:"header_data"`
}

func (f FormInstance) Summary() FormSummary {
	return FormSummary{ID: f.ID, Type: f.Type, CreatedAt: f.CreatedAt, HeaderData: f.HeaderData}
}
