package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/openai/openai-go/v3"
	"google.golang.org/api/googleapi"
)

func TestFromOpenAI(t *testing.T) {
	src := &openai.Error{
		StatusCode: 429,
		Type:       "rate_limit_error",
		Message:    "Rate limit reached",
	}

	err := FromOpenAI(src)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Code != 429 || apiErr.Message != "Rate limit reached" {
		t.Errorf("unexpected conversion: %+v", apiErr)
	}

	if !Classify(err).RateLimited {
		t.Errorf("converted error must classify as rate limited")
	}
}

func TestFromGoogleAPIRecoversDetails(t *testing.T) {
	src := &googleapi.Error{
		Code:    429,
		Message: "Quota exceeded",
		Body: `{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"Quota exceeded",` +
			`"details":[{"@type":"type.googleapis.com/google.rpc.RetryInfo","retryDelay":"9s"},` +
			`{"@type":"type.googleapis.com/google.rpc.QuotaFailure",` +
			`"violations":[{"quotaId":"GenerateRequestsPerMinute","quotaValue":"10"}]}]}}`,
	}

	cls := Classify(FromGoogleAPI(src))

	if !cls.RateLimited {
		t.Fatalf("expected rate-limited classification")
	}
	if cls.RetryDelay != 9*time.Second {
		t.Errorf("expected 9s retry delay, got %v", cls.RetryDelay)
	}
	if len(cls.Violations) != 1 || cls.Violations[0].QuotaID != "GenerateRequestsPerMinute" {
		t.Errorf("unexpected violations: %+v", cls.Violations)
	}
}

func TestAdaptersPassThroughPlainErrors(t *testing.T) {
	plain := errors.New("dial tcp: connection refused")

	if got := FromOpenAI(plain); got != plain {
		t.Errorf("FromOpenAI changed a plain error: %v", got)
	}
	if got := FromGoogleAPI(plain); got != plain {
		t.Errorf("FromGoogleAPI changed a plain error: %v", got)
	}
	if FromOpenAI(nil) != nil || FromGoogleAPI(nil) != nil {
		t.Errorf("nil must pass through as nil")
	}
}
