package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.MessageBodyLimit != 80 {
		t.Errorf("expected default body limit 80, got %d", cfg.MessageBodyLimit)
	}
}

func TestLoadBodyLimitOverride(t *testing.T) {
	t.Setenv("MESSAGE_BODY_LIMIT", "160")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.MessageBodyLimit != 160 {
		t.Fatalf("expected body limit 160, got %d", cfg.MessageBodyLimit)
	}
}
