package retry

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// QuotaViolation names one exceeded quota dimension as reported by the
// remote service.
type QuotaViolation struct {
	QuotaMetric string `json:"quotaMetric"`
	QuotaID     string `json:"quotaId"`
	QuotaValue  string `json:"quotaValue"`
}

// Detail is one entry of a structured error's detail list. RetryDelay uses
// the service's seconds-suffixed form, e.g. "40s".
type Detail struct {
	Type       string           `json:"@type"`
	RetryDelay string           `json:"retryDelay"`
	Violations []QuotaViolation `json:"violations"`
}

// APIError is a classified remote-call failure. Provider adapters build it
// directly; Classify also recovers it from errors whose message embeds the
// service's JSON error payload.
type APIError struct {
	Code    int      `json:"code"`
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Details []Detail `json:"details"`
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("remote call failed (code = %d, status = %s): %s",
			e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("remote call failed (code = %d): %s", e.Code, e.Message)
}

// Classification is the retry-relevant view of a failure.
type Classification struct {
	// RateLimited reports whether the failure carried status code 429.
	RateLimited bool
	// RetryDelay is the server-specified wait, zero when absent.
	RetryDelay time.Duration
	// Violations lists any reported quota violations. Diagnostic only.
	Violations []QuotaViolation
}

// Classify inspects err and extracts rate-limit information. Classification
// is best-effort and stateless: a malformed or absent payload yields the
// zero Classification, never an error.
func Classify(err error) Classification {
	if err == nil {
		return Classification{}
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = parseEmbedded(err.Error())
		if apiErr == nil {
			return Classification{}
		}
	}

	if apiErr.Code != http.StatusTooManyRequests {
		return Classification{}
	}

	cls := Classification{RateLimited: true}
	for _, d := range apiErr.Details {
		if d.RetryDelay != "" && cls.RetryDelay == 0 {
			if delay, parseErr := time.ParseDuration(d.RetryDelay); parseErr == nil && delay > 0 {
				cls.RetryDelay = delay
			}
		}

		cls.Violations = append(cls.Violations, d.Violations...)
	}

	return cls
}

// parseEmbedded scans a message for a JSON error payload between the first
// "{" and the last "}". Both the enveloped form {"error": {...}} and a bare
// payload are accepted.
func parseEmbedded(msg string) *APIError {
	start := strings.Index(msg, "{")
	end := strings.LastIndex(msg, "}")
	if start < 0 || end <= start {
		return nil
	}
	blob := []byte(msg[start : end+1])

	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(blob, &envelope); err == nil &&
		envelope.Error != nil && envelope.Error.Code != 0 {
		return envelope.Error
	}

	var direct APIError
	if err := json.Unmarshal(blob, &direct); err == nil && direct.Code != 0 {
		return &direct
	}

	return nil
}
