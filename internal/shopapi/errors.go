package shopapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound — внешнее API ответило 404.
var ErrNotFound = errors.New("not found")

// ErrorKind — класс ошибки на границе с внешним API.
type ErrorKind string

const (
	KindTransport  ErrorKind = "transport"  // сеть, таймаут, отмена
	KindStatus     ErrorKind = "status"     // не-2xx с телом {"error": "..."}
	KindUnparsable ErrorKind = "unparsable" // не-2xx, тело не разобрать
	KindDecode     ErrorKind = "decode"     // 2xx, но тело не того формата
)

// APIError — ошибка вызова внешнего API. Message — то, что стоит показать
// пользователю: текст из тела ответа или «HTTP error <status>».
type APIError struct {
	Kind     ErrorKind
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("shop api %s: %s (status %d)", e.Endpoint, e.Message, e.Status)
	}
	return fmt.Sprintf("shop api %s: %s", e.Endpoint, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is — 404 от API совпадает с ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// UserMessage — текст для уведомления пользователя; для прочих ошибок —
// их собственный текст.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
