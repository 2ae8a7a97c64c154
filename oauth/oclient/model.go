package oclient

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const (
	defaultStateTTL = 600 * time.Second
	defaultTokenTTL = 3600 * time.Second
)

// Config holds the client credentials & provider details
type Config struct {
	Name            string // key namespace, e.g. "hubspot"
	ClientID        string
	ClientSecret    string
	RedirectURL     string
	Scopes          []string
	AuthURL         string
	TokenURL        string
	StateTTL        time.Duration // lifetime of a pending authorization, default 10m
	DefaultTokenTTL time.Duration // used when the token response has no expires_in, default 1h
	HTTPClient      *http.Client
}

// Identity is the caller a flow is bound to.
type Identity struct {
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
}

func (i Identity) Validate() error {
	if strings.TrimSpace(i.UserID) == "" || strings.TrimSpace(i.OrgID) == "" {
		return ErrMissingIdentity
	}
	return nil
}

// AuthState is serialized into the provider's state query parameter and
// stored until the callback consumes it.
type AuthState struct {
	State  string `json:"state"`
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
}

func (s AuthState) Identity() Identity {
	return Identity{UserID: s.UserID, OrgID: s.OrgID}
}

// CallbackParams are the query parameters the provider redirects back with.
type CallbackParams struct {
	Code  string
	State string
	Error string
}

// CredentialBundle is the provider's token response, kept verbatim.
type CredentialBundle json.RawMessage

type bundleFields struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   *float64 `json:"expires_in"`
}

func (b CredentialBundle) fields() bundleFields {
	var f bundleFields
	_ = json.Unmarshal(b, &f)
	return f
}

// AccessToken returns the bundle's access_token, or "" if absent.
func (b CredentialBundle) AccessToken() string {
	return b.fields().AccessToken
}

// ExpiresIn returns the provider-declared token lifetime and whether it was present.
func (b CredentialBundle) ExpiresIn() (time.Duration, bool) {
	f := b.fields()
	if f.ExpiresIn == nil {
		return 0, false
	}
	return time.Duration(*f.ExpiresIn * float64(time.Second)), true
}

func (b CredentialBundle) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("null"), nil
	}
	return b, nil
}
