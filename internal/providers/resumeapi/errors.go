package resumeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

// StatusError is the raw non-2xx answer wrapped inside the AppError.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend status %d", e.Status)
}

// Status returns the backend HTTP status carried by err, or 0.
func Status(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

func statusError(op string, status int, body []byte) error {
	return utils.E(utils.CodeForStatus(status), op, errorMessage(status, body),
		&StatusError{Status: status, Body: string(body)})
}

// errorMessage prefers {message}, then {error}, then a short plain-text body and
// finally the status text.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if m := strings.TrimSpace(payload.Message); m != "" {
			return m
		}
		if m := strings.TrimSpace(payload.Error); m != "" {
			return m
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	if t := http.StatusText(status); t != "" {
		return t
	}
	return fmt.Sprintf("backend status %d", status)
}
