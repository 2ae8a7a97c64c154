package oclient

import (
	"errors"
	"net/http"
)

// ClientError is a failure caused by the caller or the provider redirect,
// reported back with Status and Detail.
type ClientError struct {
	Status int
	Detail string
}

func (e *ClientError) Error() string {
	return e.Detail
}

var (
	ErrStateMismatch   = &ClientError{Status: http.StatusBadRequest, Detail: "State does not match."}
	ErrNoCredentials   = &ClientError{Status: http.StatusBadRequest, Detail: "No credentials found."}
	ErrMissingIdentity = &ClientError{Status: http.StatusBadRequest, Detail: "user_id and org_id are required."}

	ErrTokenExchange = errors.New("oclient: token exchange failed")
)

// ProviderError wraps the error text the provider redirected back with.
func ProviderError(detail string) *ClientError {
	return &ClientError{Status: http.StatusBadRequest, Detail: detail}
}
