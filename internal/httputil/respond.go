// Package httputil holds the JSON request/response helpers shared by the
// HTTP handlers.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/atelierhq/inventory-service/internal/apperror"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    apperror.Kind `json:"code"`
	Message string        `json:"message"`
}

// DecodeJSON strictly decodes the request body into dest. Unknown fields and
// type mismatches are rejected so malformed input never reaches business
// logic.
func DecodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

// RespondError writes err with its kind's status code and a body of the form
// {"error": {"code", "message"}}.
func RespondError(w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)
	RespondJSON(w, apperror.HTTPStatus(kind), errorBody{
		Error: errorDetail{Code: kind, Message: apperror.MessageOf(err)},
	})
}
