package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

// ValidationError describes one rejected field of a configuration document.
type ValidationError struct {
	Category   Category `json:"category"`
	QuestionID string   `json:"question_id,omitempty"`
	Field      string   `json:"field"`
	Reason     string   `json:"reason"`
}

func (e ValidationError) Error() string {
	if e.QuestionID != "" {
		return fmt.Sprintf("%s: question %s: %s: %s", e.Category, e.QuestionID, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Category, e.Field, e.Reason)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateQuestion checks a single question in isolation. Checks that need
// the rest of the form (id uniqueness, conditional targets) are done by
// ValidateDocument.
func ValidateQuestion(category Category, q Question) error {
	var result *multierror.Error
	fail := func(field, reason string) {
		result = multierror.Append(result, ValidationError{category, q.ID, field, reason})
	}

	if err := getValidator().Struct(q); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				fail(fieldPath(fe), describeTag(fe))
			}
		} else {
			fail("question", err.Error())
		}
		// a bad type makes the type-specific checks meaningless
		if !knownType(q.Type) {
			return result.ErrorOrNil()
		}
	}

	blank := func(s string) bool { return strings.TrimSpace(s) == "" }
	switch q.Type {
	case TypeDivider:
		if !blank(q.DestinationColumn) || !blank(q.QuestionDestinationColumn) {
			fail("destination_column", "divider cannot have a destination")
		}
		if q.Conditional != nil {
			fail("conditional", "divider cannot be conditional")
		}
	case TypeMondayColumn:
		if blank(q.SourceColumn) {
			fail("source_column", "required")
		}
		if blank(q.DestinationColumn) && blank(q.QuestionDestinationColumn) {
			fail("destination_column", "at least one of destination_column or question_destination_column is required")
		}
	default:
		if blank(q.DestinationColumn) {
			fail("destination_column", "required")
		}
		if q.Type == TypeDropdown && len(q.Options()) == 0 {
			fail("dropdown_options", "at least one option is required")
		}
	}

	return result.ErrorOrNil()
}

// ValidateFormType validates every question and header field of a category.
func ValidateFormType(category Category, cfg FormTypeConfig) error {
	var result *multierror.Error

	if len(cfg.HeaderFields) > MaxHeaderFields {
		result = multierror.Append(result, ValidationError{
			Category: category,
			Field:    "header_fields",
			Reason:   fmt.Sprintf("at most %d header fields are allowed", MaxHeaderFields),
		})
	}
	for i, h := range cfg.HeaderFields {
		if err := getValidator().Struct(h); err != nil {
			if fieldErrs, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range fieldErrs {
					result = multierror.Append(result, ValidationError{
						Category: category,
						Field:    fmt.Sprintf("header_fields[%d].%s", i, fe.Field()),
						Reason:   describeTag(fe),
					})
				}
			}
		}
	}

	position := map[string]int{}
	for i, q := range cfg.Questions {
		if err := ValidateQuestion(category, q); err != nil {
			result = multierror.Append(result, err)
		}
		if q.ID == "" {
			continue
		}
		if _, dup := position[q.ID]; dup {
			result = multierror.Append(result, ValidationError{category, q.ID, "id", "duplicate id"})
			continue
		}
		position[q.ID] = i
	}

	for _, q := range cfg.Questions {
		if !q.HasConditional() || q.Conditional.DependsOn == q.ID {
			continue
		}
		// unknown targets leave the question unconditionally visible, later
		// ones leave it hidden
		target, ok := position[q.Conditional.DependsOn]
		if !ok {
			continue
		}
		if cfg.Questions[target].Type != TypeYesNo {
			result = multierror.Append(result, ValidationError{category, q.ID, "conditional.depends_on", "must reference a yesno question"})
		}
	}

	return result.ErrorOrNil()
}

// ValidateDocument validates all categories of a configuration document.
// The returned error, when not nil, is a *multierror.Error whose entries are
// ValidationError values.
func ValidateDocument(doc Document) error {
	var result *multierror.Error
	for c := range doc {
		if _, ok := ParseCategory(string(c)); !ok {
			result = multierror.Append(result, ValidationError{Category: c, Field: "category", Reason: "unknown category"})
		}
	}
	for _, c := range Categories {
		cfg, ok := doc[c]
		if !ok {
			continue
		}
		if err := ValidateFormType(c, cfg); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// IsValidationError reports whether err carries at least one ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// ValidationErrors flattens err into its ValidationError entries.
func ValidationErrors(err error) []ValidationError {
	var out []ValidationError
	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case nil:
		case *multierror.Error:
			for _, inner := range e.Errors {
				walk(inner)
			}
		case ValidationError:
			out = append(out, e)
		default:
			out = append(out, ValidationError{Field: "document", Reason: e.Error()})
		}
	}
	walk(err)
	return out
}

func knownType(t QuestionType) bool {
	switch t {
	case TypeText, TypeLongText, TypeYesNo, TypeRating, TypeDropdown, TypeMondayColumn, TypeDivider:
		return true
	}
	return false
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_unless":
		return "required"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "failed " + fe.Tag()
}
