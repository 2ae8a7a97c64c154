package oclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Seann-Moser/integrations/kv"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTokenRequestTimeout = 30 * time.Second
	maxTokenResponseBytes      = 1 << 20
)

// OAuthService defines the authorization-code handshake for one provider
type OAuthService interface {
	// Authorize stores a fresh state for the caller and returns the provider's authorization URL.
	Authorize(ctx context.Context, id Identity) (string, error)

	// Callback validates the returned state, exchanges the code and stores the credentials.
	Callback(ctx context.Context, params CallbackParams) (Identity, error)

	// Credentials returns the stored credentials once, deleting them on read.
	Credentials(ctx context.Context, id Identity) (CredentialBundle, error)
}

var _ OAuthService = &Client{}

// Client is a kv.Store backed implementation of OAuthService.
type Client struct {
	cfg    Config
	oauth  *oauth2.Config
	store  kv.Store
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a new client for the provider described by cfg.
func NewClient(cfg Config, store kv.Store, logger *slog.Logger) (*Client, error) {
	cfg.Name = strings.TrimSpace(strings.ToLower(cfg.Name))
	if cfg.Name == "" {
		return nil, errors.New("oclient: provider name is required")
	}
	if cfg.AuthURL == "" || cfg.TokenURL == "" {
		return nil, fmt.Errorf("oclient: auth and token urls are required for provider %q", cfg.Name)
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("oclient: client id is required for provider %q", cfg.Name)
	}
	if store == nil {
		return nil, errors.New("oclient: store is required")
	}
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = defaultStateTTL
	}
	if cfg.DefaultTokenTTL <= 0 {
		cfg.DefaultTokenTTL = defaultTokenTTL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTokenRequestTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
		},
		store:  store,
		http:   httpClient,
		logger: logger.With("provider", cfg.Name),
	}, nil
}

func (c *Client) Name() string {
	return c.cfg.Name
}

// StateKey is where the pending authorization for id is kept.
func (c *Client) StateKey(id Identity) string {
	return fmt.Sprintf("%s_state:%s:%s", c.cfg.Name, id.OrgID, id.UserID)
}

// CredentialsKey is where the exchanged token response for id is kept.
func (c *Client) CredentialsKey(id Identity) string {
	return fmt.Sprintf("%s_credentials:%s:%s", c.cfg.Name, id.OrgID, id.UserID)
}

// Authorize starts a flow for id. A second call replaces any pending state.
func (c *Client) Authorize(ctx context.Context, id Identity) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}
	nonce, err := GenerateNonce()
	if err != nil {
		return "", err
	}
	encoded, err := json.Marshal(AuthState{State: nonce, UserID: id.UserID, OrgID: id.OrgID})
	if err != nil {
		return "", fmt.Errorf("oclient: encode state: %w", err)
	}
	if err := c.store.Put(ctx, c.StateKey(id), encoded, c.cfg.StateTTL); err != nil {
		return "", err
	}
	return c.oauth.AuthCodeURL(string(encoded)), nil
}

// Callback completes the flow started by Authorize.
func (c *Client) Callback(ctx context.Context, params CallbackParams) (Identity, error) {
	if params.Error != "" {
		return Identity{}, ProviderError(params.Error)
	}

	var returned AuthState
	if params.State == "" || json.Unmarshal([]byte(params.State), &returned) != nil {
		return Identity{}, ErrStateMismatch
	}
	id := returned.Identity()
	stateKey := c.StateKey(id)

	saved, err := c.store.Get(ctx, stateKey)
	if errors.Is(err, kv.ErrNotFound) {
		return id, ErrStateMismatch
	}
	if err != nil {
		return id, err
	}
	var expected AuthState
	if err := json.Unmarshal(saved, &expected); err != nil {
		return id, fmt.Errorf("oclient: decode stored state: %w", err)
	}
	if !nonceEqual(returned.State, expected.State) {
		return id, ErrStateMismatch
	}

	// both effects always run to completion; no cancellation between them
	var (
		g      errgroup.Group
		bundle CredentialBundle
	)
	g.Go(func() error {
		var err error
		bundle, err = c.exchange(ctx, params.Code)
		return err
	})
	g.Go(func() error {
		return c.store.Delete(ctx, stateKey)
	})
	if err := g.Wait(); err != nil {
		return id, err
	}

	ttl, ok := bundle.ExpiresIn()
	if !ok || ttl <= 0 {
		ttl = c.cfg.DefaultTokenTTL
	}
	if err := c.store.Put(ctx, c.CredentialsKey(id), bundle, ttl); err != nil {
		return id, err
	}
	c.logger.InfoContext(ctx, "stored oauth credentials", "org_id", id.OrgID, "user_id", id.UserID, "ttl", ttl)
	return id, nil
}

// Credentials hands the stored bundle to the caller exactly once.
func (c *Client) Credentials(ctx context.Context, id Identity) (CredentialBundle, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	key := c.CredentialsKey(id)
	data, err := c.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("oclient: stored credentials for %s are not valid json", key)
	}
	if err := c.store.Delete(ctx, key); err != nil {
		return nil, err
	}
	return CredentialBundle(data), nil
}

// exchange posts the authorization code to the token endpoint and returns
// the response body unchanged.
func (c *Client) exchange(ctx context.Context, code string) (CredentialBundle, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {c.oauth.ClientID},
		"client_secret": {c.oauth.ClientSecret},
		"redirect_uri":  {c.oauth.RedirectURL},
		"code":          {code},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauth.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("oclient: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oclient: token request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("oclient: read token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrTokenExchange, resp.StatusCode, truncate(string(body), 256))
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not json", ErrTokenExchange)
	}
	bundle := CredentialBundle(body)
	if bundle.AccessToken() == "" {
		return nil, fmt.Errorf("%w: response has no access_token", ErrTokenExchange)
	}
	return bundle, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
