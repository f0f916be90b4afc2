package jsonbody

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wolfman30/inis-relay/internal/http/apierror"
)

// MaxBytes caps request bodies.
const MaxBytes = 1 << 20

// DecodeObject reads r's body as a JSON object. An empty body or a JSON value
// that is not an object yields an empty map; malformed JSON is a validation
// failure.
func DecodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	if r.Body == nil {
		return map[string]any{}, nil
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &apierror.Error{
				Kind:    apierror.KindValidationFailed,
				Status:  http.StatusRequestEntityTooLarge,
				Message: "Request body too large",
				Err:     err,
			}
		}
		return nil, apierror.UnexpectedServerError("Server error", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &apierror.Error{
			Kind:    apierror.KindValidationFailed,
			Status:  http.StatusBadRequest,
			Message: "Invalid JSON body",
			Err:     err,
		}
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return obj, nil
}
