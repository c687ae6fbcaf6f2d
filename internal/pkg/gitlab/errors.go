package gitlab

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	KindAuth       = "auth"
	KindNotFound   = "not_found"
	KindValidation = "validation"
	KindTransient  = "transient"
)

// RequestError contains details of a failed request, it is embedded in all typed errors.
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	// Message is the "message" or "error" field from the response body.
	Message string
	cause   error
}

// AuthError is returned on 401 Unauthorized and 403 Forbidden.
type AuthError struct {
	RequestError
}

// NotFoundError is returned on 404 Not Found.
type NotFoundError struct {
	RequestError
}

// ValidationError is returned on 400 and other client errors, for example if the ref doesn't exist or the job is not manual.
type ValidationError struct {
	RequestError
}

// TransientError is returned on 5xx, 408, 429 and on network errors.
type TransientError struct {
	RequestError
}

func (e RequestError) Error() string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf(`request "%s %s" failed`, e.Method, e.URL))
	if e.StatusCode > 0 {
		out.WriteString(fmt.Sprintf(": %d %s", e.StatusCode, http.StatusText(e.StatusCode)))
	}
	if e.Message != "" && e.Message != fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode)) {
		out.WriteString(": ")
		out.WriteString(e.Message)
	}
	return out.String()
}

func (e RequestError) Unwrap() error {
	return e.cause
}

func (e *AuthError) ErrorKind() string {
	return KindAuth
}

func (e *NotFoundError) ErrorKind() string {
	return KindNotFound
}

func (e *ValidationError) ErrorKind() string {
	return KindValidation
}

func (e *TransientError) ErrorKind() string {
	return KindTransient
}

func newResponseError(res *resty.Response) error {
	base := RequestError{
		Method:     res.Request.Method,
		URL:        res.Request.URL,
		StatusCode: res.StatusCode(),
		Message:    responseMessage(res.Body()),
	}

	switch code := res.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &AuthError{RequestError: base}
	case code == http.StatusNotFound:
		return &NotFoundError{RequestError: base}
	case code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError:
		return &TransientError{RequestError: base}
	default:
		return &ValidationError{RequestError: base}
	}
}

// responseMessage extracts the error message from the body.
// The "message" field may be a string, a list or a map of field errors.
func responseMessage(body []byte) string {
	var data struct {
		Message          any    `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return ""
	}
	switch {
	case data.Message != nil:
		return flattenMessage(data.Message)
	case data.ErrorDescription != "":
		return data.ErrorDescription
	default:
		return data.Error
	}
}

func flattenMessage(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, flattenMessage(item))
		}
		return strings.Join(items, ", ")
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		items := make([]string, 0, len(keys))
		for _, key := range keys {
			items = append(items, key+": "+flattenMessage(v[key]))
		}
		return strings.Join(items, "; ")
	default:
		return fmt.Sprint(v)
	}
}
