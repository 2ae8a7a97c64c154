package hubspot

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/Seann-Moser/integrations/kv"
	"github.com/Seann-Moser/integrations/oauth/oclient"
)

func TestNew_AuthorizeURL(t *testing.T) {
	store := kv.NewMemoryStore()
	p, err := New(Config{
		ClientID:     "cid",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8000/integrations/hubspot/oauth2callback",
	}, store, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if p.Name() != "hubspot" {
		t.Errorf("Name = %q", p.Name())
	}

	raw, err := p.Authorize(context.Background(), oclient.Identity{UserID: "u1", OrgID: "o1"})
	if err != nil {
		t.Fatalf("Authorize error: %v", err)
	}
	if !strings.HasPrefix(raw, DefaultAuthURL+"?") {
		t.Errorf("url = %q", raw)
	}
	u, _ := url.Parse(raw)
	if got := u.Query().Get("scope"); got != "contacts content files forms automation marketing emails" {
		t.Errorf("scope = %q", got)
	}
	if _, err := store.Get(context.Background(), "hubspot_state:o1:u1"); err != nil {
		t.Errorf("state not stored under hubspot_state:o1:u1: %v", err)
	}
}

func TestNew_RequiresClientID(t *testing.T) {
	if _, err := New(Config{}, kv.NewMemoryStore(), nil); err == nil {
		t.Error("expected error without client id")
	}
}
