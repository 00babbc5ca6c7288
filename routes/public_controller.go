package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/monday-forms/app"
	"github.com/mbolis/monday-forms/httpx"
	"github.com/mbolis/monday-forms/log"
	"github.com/mbolis/monday-forms/model"
	"github.com/mbolis/monday-forms/submission"
	"github.com/mbolis/monday-forms/visibility"
)

const submitAcceptedMsg = "Formulário enviado com sucesso! As respostas estão sendo processadas."

type FormResponse struct {
	ID           string               `json:"id"`
	Type         model.Category       `json:"type"`
	HeaderData   map[string]string    `json:"header_data"`
	HeaderFields []model.HeaderField  `json:"header_fields"`
	Questions    []model.Question     `json:"questions"`
	Config       model.FormTypeConfig `json:"config"`
	CreatedAt    time.Time            `json:"created_at"`
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")
		form, ok := app.Forms.Get(formId)
		if !ok {
			httpx.LogNotFound(w, r, "get_form", formId)
			return
		}

		render.JSON(w, r, FormResponse{
			ID:           form.ID,
			Type:         form.Type,
			HeaderData:   form.HeaderData,
			HeaderFields: form.HeaderFields,
			Questions:    form.Questions,
			Config:       app.Configs.Get(r.Context())[form.Type],
			CreatedAt:    form.CreatedAt,
		})
	}
}

// VisibleQuestions returns the questions shown for the answers given so far.
func VisibleQuestions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")
		form, ok := app.Forms.Get(formId)
		if !ok {
			httpx.LogNotFound(w, r, "visible_questions", formId)
			return
		}

		answers := model.Answers{}
		err := render.DecodeJSON(r.Body, &answers)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		visible := visibility.NewEvaluator(form.Questions).Visible(form.Questions, answers)
		ids := make([]string, len(visible))
		for i, q := range visible {
			ids[i] = q.ID
		}
		render.JSON(w, r, map[string]any{
			"visible":   ids,
			"questions": visible,
		})
	}
}

func SubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")
		form, ok := app.Forms.Get(formId)
		if !ok {
			httpx.LogNotFound(w, r, "submit_form", formId)
			return
		}

		answers := model.Answers{}
		err := render.DecodeJSON(r.Body, &answers)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		received := len(answers)
		answers = visibility.NewEvaluator(form.Questions).Answers(form.Questions, answers)
		log.Form(form.ID, form.Type).
			WithField("answers", len(answers)).
			WithField("dropped", received-len(answers)).
			Info("submit_form: received")

		if app.AlwaysAccept {
			if err = app.Submissions.Dispatch(form, answers); err != nil {
				log.Errorf("submit_form.dispatch: form %s: %s", form.ID, err)
			}
		} else {
			err = app.Submissions.Process(r.Context(), form, answers)
			if err != nil && !errors.Is(err, submission.ErrNoDestination) {
				httpx.LogStatusMsg(w, r, http.StatusBadGateway, log.ErrorLevel, "submit_form.process", "%s", err)
				return
			}
		}

		render.JSON(w, r, map[string]any{
			"success": true,
			"message": submitAcceptedMsg,
		})
	}
}
