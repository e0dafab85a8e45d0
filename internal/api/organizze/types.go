package organizze

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// Error is returned for any non-2xx response from the Organizze API.
type Error struct {
	HTTPStatus int
	Message    string `json:"error"`
}

func (err Error) Error() string {
	return fmt.Sprintf("%s (http status=%d)", err.Message, err.HTTPStatus)
}

// UnmarshalError builds an Error from a response body. Organizze answers with
// {"error": "..."} for most failures and {"errors": {"field": ["..."]}} for validation failures.
func UnmarshalError(status int, body []byte) error {
	apiError := Error{
		HTTPStatus: status,
		Message:    http.StatusText(status),
	}

	if len(body) == 0 {
		return apiError
	}

	var payload struct {
		Error  string              `json:"error"`
		Errors map[string][]string `json:"errors"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		apiError.Message = strings.TrimSpace(string(body))
		return apiError
	}

	switch {
	case payload.Error != "":
		apiError.Message = payload.Error
	case len(payload.Errors) > 0:
		messages := make([]string, 0, len(payload.Errors))
		for _, field := range slices.Sorted(maps.Keys(payload.Errors)) {
			messages = append(messages, fmt.Sprintf("%s: %s", field, strings.Join(payload.Errors[field], ", ")))
		}
		apiError.Message = strings.Join(messages, "; ")
	}

	return apiError
}
