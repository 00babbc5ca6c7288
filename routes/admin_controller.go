package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/monday-forms/app"
	"github.com/mbolis/monday-forms/httpx"
	"github.com/mbolis/monday-forms/log"
	"github.com/mbolis/monday-forms/model"
)

func GetConfig(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, app.Configs.Get(r.Context()))
	}
}

// SaveConfig replaces the whole configuration document.
func SaveConfig(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := model.Document{}
		err := render.DecodeJSON(r.Body, &doc)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		warning, err := app.Configs.Save(r.Context(), doc)
		if err != nil {
			if model.IsValidationError(err) {
				log.Debugf("config.save.validate: %s", err)
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, map[string]any{
					"error":   "Invalid configuration",
					"details": model.ValidationErrors(err),
				})
				return
			}
			httpx.LogInternalError(w, r, "config.save", err)
			return
		}

		if warning != "" {
			render.JSON(w, r, map[string]any{
				"message": "Configuration saved to memory only.",
				"warning": warning,
			})
			return
		}
		render.JSON(w, r, map[string]any{
			"message": "Configuration saved successfully",
		})
	}
}

func ReloadConfig(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"success": true,
			"message": "Configuration reloaded successfully",
			"config":  app.Configs.Reload(r.Context()),
		})
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms := app.Forms.List()
		summaries := make([]model.FormSummary, len(forms))
		for i, f := range forms {
			summaries[i] = f.Summary()
		}

		render.JSON(w, r, map[string]any{
			"forms": summaries,
		})
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")
		if !app.Forms.Delete(formId) {
			httpx.LogNotFound(w, r, "delete_form", formId)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
