package config

import (
	"log/slog"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HUBSPOT_CLIENT_ID", "cid")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.HTTPAddr != ":8000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.KVBackend != BackendRedis {
		t.Errorf("KVBackend = %q", cfg.KVBackend)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.HubSpot.ClientID != "cid" {
		t.Errorf("HubSpot.ClientID = %q", cfg.HubSpot.ClientID)
	}
	if cfg.HubSpot.RedirectURL != "http://localhost:8000/integrations/hubspot/oauth2callback" {
		t.Errorf("HubSpot.RedirectURL = %q", cfg.HubSpot.RedirectURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HUBSPOT_CLIENT_ID", "cid")
	t.Setenv("HUBSPOT_CLIENT_SECRET", "shh")
	t.Setenv("KV_BACKEND", "mongo")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.KVBackend != BackendMongo || cfg.RedisDB != 3 || cfg.HubSpot.ClientSecret != "shh" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{KVBackend: BackendMemory, HubSpot: HubSpot{ClientID: "c"}}, false},
		{"unknown backend", Config{KVBackend: "etcd", HubSpot: HubSpot{ClientID: "c"}}, true},
		{"missing client id", Config{KVBackend: BackendRedis}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	if (Config{LogLevel: "DEBUG"}).SlogLevel() != slog.LevelDebug {
		t.Error("debug not mapped")
	}
	if (Config{LogLevel: "nonsense"}).SlogLevel() != slog.LevelInfo {
		t.Error("unknown level should default to info")
	}
}
