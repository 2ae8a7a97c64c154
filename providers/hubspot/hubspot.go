// Package hubspot connects the HubSpot CRM: the OAuth handshake through
// oclient and metadata listing of contacts, companies and deals.
package hubspot

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Seann-Moser/integrations/kv"
	"github.com/Seann-Moser/integrations/oauth/oclient"
)

const (
	Name = "hubspot"

	DefaultAuthURL    = "https://app.hubspot.com/oauth/authorize"
	DefaultTokenURL   = "https://api.hubapi.com/oauth/v1/token"
	DefaultAPIBaseURL = "https://api.hubapi.com"
)

// Scopes requested on every authorization.
var Scopes = []string{"contacts", "content", "files", "forms", "automation", "marketing", "emails"}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// endpoint overrides, mostly for tests
	AuthURL    string
	TokenURL   string
	APIBaseURL string
	HTTPClient *http.Client
}

// Provider bundles the HubSpot OAuth client and item loader.
type Provider struct {
	*oclient.Client
	*Loader
}

var (
	_ oclient.OAuthService = &Provider{}
	_ oclient.ItemLoader   = &Provider{}
)

func New(cfg Config, store kv.Store, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	client, err := oclient.NewClient(oclient.Config{
		Name:         Name,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       Scopes,
		AuthURL:      cfg.AuthURL,
		TokenURL:     cfg.TokenURL,
		HTTPClient:   cfg.HTTPClient,
	}, store, logger)
	if err != nil {
		return nil, err
	}
	return &Provider{
		Client: client,
		Loader: NewLoader(strings.TrimSuffix(cfg.APIBaseURL, "/"), cfg.HTTPClient, logger),
	}, nil
}
