package httpx

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/mbolis/monday-forms/log"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// Will log an error, and send a JSON response with status 500 and default text
func LogInternalError(w http.ResponseWriter, r *http.Request, code string, err error) {
	entry(r, code).Error(err)
	writeError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// Will log a debug message, and send a JSON response with status 404 and default text
func LogNotFound(w http.ResponseWriter, r *http.Request, code string, id any) {
	entry(r, code).Debugf("not found (%v)", id)
	writeError(w, r, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

// Will log an error code at the given level, and send
// a JSON response with status and default text
func LogStatus(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string) {
	entry(r, code).Log(logrus.Level(level), http.StatusText(status))
	writeError(w, r, status, http.StatusText(status))
}

// Will log an error code and message at the given level,
// and send a JSON response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	entry(r, code).Log(logrus.Level(level), errMsg)
	writeError(w, r, status, errMsg)
}

func entry(r *http.Request, code string) *logrus.Entry {
	fields := log.Fields{"code": code}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fields["request_id"] = id
	}
	return log.WithFields(fields)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}
