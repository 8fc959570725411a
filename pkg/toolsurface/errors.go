package toolsurface

import (
	"errors"

	"github.com/tuitbot/tuitbot/pkg/gateway"
	"github.com/tuitbot/tuitbot/pkg/llmprovider"
	"github.com/tuitbot/tuitbot/pkg/store"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

// ErrorCode is the closed taxonomy every envelope error.code takes its
// value from. Nothing outside this package should mint a new one.
type ErrorCode string

const (
	ErrInvalidInput         ErrorCode = "invalid_input"
	ErrTweetTooLong         ErrorCode = "tweet_too_long"
	ErrUnsupportedMediaType ErrorCode = "unsupported_media_type"
	ErrMediaUploadError     ErrorCode = "media_upload_error"
	ErrXRateLimited         ErrorCode = "x_rate_limited"
	ErrXAuthExpired         ErrorCode = "x_auth_expired"
	ErrXForbidden           ErrorCode = "x_forbidden"
	ErrXNetworkError        ErrorCode = "x_network_error"
	ErrXApiError            ErrorCode = "x_api_error"
	ErrXNotConfigured       ErrorCode = "x_not_configured"
	ErrLLMNotConfigured     ErrorCode = "llm_not_configured"
	ErrLLMError             ErrorCode = "llm_error"
	ErrDBError              ErrorCode = "db_error"
	ErrPolicyDeniedBlocked  ErrorCode = "policy_denied_blocked"
	ErrPolicyDeniedApproval ErrorCode = "policy_denied_approval"
	ErrPolicyDeniedRate     ErrorCode = "policy_denied_rate_limit"
	ErrValidation           ErrorCode = "validation_error"
	ErrThreadPartialFailure ErrorCode = "thread_partial_failure"
)

// paramsError marks a request whose params failed to decode against a
// handler's expected shape; errorFromErr maps it straight to
// invalid_input rather than falling through to the x_api_error default.
type paramsError struct{ msg string }

func (e paramsError) Error() string { return e.msg }

func newParamsError(err error) error { return paramsError{msg: "invalid params: " + err.Error()} }

// Error is the envelope's error object.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Retryable  bool      `json:"retryable"`
	RetryAfter *int      `json:"retry_after_ms,omitempty"`
}

func newError(code ErrorCode, message string, retryable bool) *Error {
	return &Error{Code: code, Message: message, Retryable: retryable}
}

// errorFromErr maps any error surfaced by toolkit, the LLM provider, the
// store, or the gateway onto the closed ErrorCode set. Unrecognized
// errors fall back to x_api_error, since every dependency here eventually
// bottoms out in a social-API call somewhere in the stack.
func errorFromErr(err error) *Error {
	if err == nil {
		return nil
	}

	var pErr paramsError
	if errors.As(err, &pErr) {
		return newError(ErrInvalidInput, pErr.msg, false)
	}

	var tkErr *toolkit.ToolkitError
	if errors.As(err, &tkErr) {
		return errorFromToolkit(tkErr)
	}

	var threadErr *toolkit.ThreadPartialFailure
	if errors.As(err, &threadErr) {
		return newError(ErrThreadPartialFailure, threadErr.Error(), false)
	}

	var provErr *llmprovider.ProviderError
	if errors.As(err, &provErr) {
		return errorFromProvider(provErr)
	}

	if errors.Is(err, store.ErrNotFound) {
		return newError(ErrDBError, err.Error(), false)
	}

	return newError(ErrXApiError, err.Error(), false)
}

func errorFromToolkit(e *toolkit.ToolkitError) *Error {
	switch e.Kind {
	case toolkit.ErrInvalidInput:
		return newError(ErrInvalidInput, e.Message, false)
	case toolkit.ErrTweetTooLong:
		return newError(ErrTweetTooLong, e.Message, false)
	case toolkit.ErrUnsupportedMediaType:
		return newError(ErrUnsupportedMediaType, e.Message, false)
	case toolkit.ErrMediaTooLarge:
		return newError(ErrMediaUploadError, e.Message, false)
	case toolkit.ErrThreadPartialFailure:
		return newError(ErrThreadPartialFailure, e.Message, false)
	case toolkit.ErrXApi:
		if e.Retryable && e.RetryAfter > 0 {
			ms := e.RetryAfter
			return &Error{Code: ErrXRateLimited, Message: e.Message, Retryable: true, RetryAfter: &ms}
		}
		return newError(ErrXApiError, e.Message, e.Retryable)
	default:
		return newError(ErrXApiError, e.Message, e.Retryable)
	}
}

func errorFromProvider(e *llmprovider.ProviderError) *Error {
	switch e.Kind {
	case llmprovider.ErrNotConfigured:
		return newError(ErrLLMNotConfigured, e.Message, false)
	case llmprovider.ErrRateLimited, llmprovider.ErrTimeout:
		return newError(ErrLLMError, e.Message, true)
	default:
		return newError(ErrLLMError, e.Message, false)
	}
}

// errorFromOutcome maps a gateway.Result that did not execute the
// primitive onto the closed error set. Callers only invoke this for
// non-executed, non-queued, non-dry-run outcomes.
func errorFromOutcome(res gateway.Result) *Error {
	switch res.Outcome {
	case gateway.OutcomeBlocked:
		return newError(ErrPolicyDeniedBlocked, res.Reason, false)
	case gateway.OutcomeRateLimited:
		return newError(ErrPolicyDeniedRate, res.Reason, false)
	case gateway.OutcomeDuplicate, gateway.OutcomeDuplicateInFlight:
		return newError(ErrValidation, "duplicate mutation: "+res.Reason, false)
	case gateway.OutcomeFailed:
		return errorFromErr(res.Err)
	default:
		return newError(ErrXApiError, "unexpected gateway outcome: "+string(res.Outcome), false)
	}
}
