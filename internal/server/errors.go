package server

import (
	"errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
)

// errorBody is the JSON error response.
type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    tserrors.Code `json:"code"`
	Message string        `json:"message"`

	// Syntax errors
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`

	// Size limits
	Limit  int    `json:"limit,omitempty"`
	Actual int    `json:"actual,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

func notFound(path string) error {
	return tserrors.New(tserrors.ErrCodeNotFound, "no route for %s", path)
}

// writeError maps err to a status code and JSON body. Internal errors are
// logged by the request logger and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := tserrors.HTTPStatus(err)
	detail := errorDetail{Code: tserrors.GetCode(err), Message: tserrors.UserMessage(err)}

	var se *tserrors.SyntaxError
	var le *tserrors.SizeLimitError
	switch {
	case errors.As(err, &se):
		detail.Message = "Parse error: " + se.Error()
		detail.Line, detail.Column = se.Line, se.Column
	case errors.As(err, &le):
		detail.Message = le.Error()
		detail.Limit, detail.Actual, detail.Kind = le.Limit, le.Actual, le.Kind
	}
	if status == http.StatusInternalServerError {
		detail.Code = tserrors.ErrCodeInternal
		detail.Message = "internal error"
	}

	writeJSON(w, status, errorBody{Error: detail, RequestID: chimiddleware.GetReqID(r.Context())})
}
