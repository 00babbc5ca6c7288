package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/monday-forms/app"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RequestID, middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	root.Get("/form/{id}", serveFormPage())
	root.Mount("/admin", servePrivateFiles("/admin"))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/forms/{id}", GetForm(app))
	api.Post("/forms/{id}/visible", VisibleQuestions(app))
	api.Post("/forms/{id}/submit", SubmitForm(app))

	api.Post("/webhooks/{category}", ReceiveWebhook(app))

	// admin
	api.Get("/config", GetConfig(app))
	api.Post("/config", SaveConfig(app))
	api.Post("/reload_config", ReloadConfig(app))
	api.Get("/forms", ListForms(app))
	api.Delete("/forms/{id}", DeleteForm(app))

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}

func servePrivateFiles(path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir("private")))
}

// The form page is static; it loads the instance from /api/forms/{id}.
func serveFormPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "public/form.html")
	}
}
