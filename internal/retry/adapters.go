package retry

import (
	"errors"

	"github.com/openai/openai-go/v3"
	"google.golang.org/api/googleapi"
)

// FromOpenAI converts an openai-go API error into an *APIError so that Do
// classifies it without message scanning. Other errors pass through.
func FromOpenAI(err error) error {
	if err == nil {
		return nil
	}

	var oerr *openai.Error
	if !errors.As(err, &oerr) {
		return err
	}

	return &APIError{
		Code:    oerr.StatusCode,
		Status:  oerr.Type,
		Message: oerr.Message,
	}
}

// FromGoogleAPI converts a googleapi error into an *APIError, recovering the
// structured detail list (retry delay, quota violations) from the raw
// response body when present. Other errors pass through.
func FromGoogleAPI(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	apiErr := &APIError{
		Code:    gerr.Code,
		Message: gerr.Message,
	}

	if parsed := parseEmbedded(gerr.Body); parsed != nil {
		apiErr.Status = parsed.Status
		apiErr.Details = parsed.Details
		if apiErr.Message == "" {
			apiErr.Message = parsed.Message
		}
	}

	return apiErr
}
