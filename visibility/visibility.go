// Package visibility decides which questions of a form are shown, given the
// answers collected so far.
//
// Conditionals are a single hop: a question may depend on one yesno question
// that comes before it. There is no dependency graph and chains are not
// followed.
package visibility

import (
	"strings"

	"github.com/mbolis/monday-forms/model"
)

type Evaluator struct {
	position map[string]int
}

func NewEvaluator(questions []model.Question) *Evaluator {
	e := &Evaluator{position: make(map[string]int, len(questions))}
	for i, q := range questions {
		if q.ID == "" || q.Type == model.TypeDivider {
			continue
		}
		if _, dup := e.position[q.ID]; !dup {
			e.position[q.ID] = i
		}
	}
	return e
}

// IsVisible reports whether q is shown given answers.
//
// A conditional whose target is missing, is q itself, or is a divider never
// hides the question. A target positioned after q is never satisfied.
func (e *Evaluator) IsVisible(q model.Question, answers model.Answers) bool {
	if !q.HasConditional() {
		return true
	}
	dep := q.Conditional.DependsOn
	if dep == q.ID {
		return true
	}
	target, ok := e.position[dep]
	if !ok {
		return true
	}
	if self, ok := e.position[q.ID]; ok && target > self {
		return false
	}

	answer, ok := answers.Lookup(dep)
	if !ok || strings.TrimSpace(answer) == "" {
		return false
	}
	if q.Conditional.ShowIf == "" {
		return true
	}
	return strings.EqualFold(model.NormalizeToken(answer), q.Conditional.ShowIf)
}

// Visible returns the non-divider questions shown for answers, in order.
func (e *Evaluator) Visible(questions []model.Question, answers model.Answers) []model.Question {
	visible := []model.Question{}
	for _, q := range questions {
		if q.Type == model.TypeDivider {
			continue
		}
		if e.IsVisible(q, answers) {
			visible = append(visible, q)
		}
	}
	return visible
}

// Answers keeps only the answers of questions shown for answers. Answers to
// hidden questions, dividers and unknown ids are dropped.
func (e *Evaluator) Answers(questions []model.Question, answers model.Answers) model.Answers {
	kept := model.Answers{}
	for _, q := range e.Visible(questions, answers) {
		if q.ID == "" {
			continue
		}
		if v, ok := answers[q.ID]; ok {
			kept[q.ID] = v
		}
	}
	return kept
}
