package config

import "testing"

func TestLoadBotDefaults(t *testing.T) {
	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.WSURL != "ws://localhost:8080/ws" {
		t.Fatalf("WSURL = %q, want ws://localhost:8080/ws", cfg.WSURL)
	}
	if cfg.Name != "bot" {
		t.Fatalf("Name = %q, want bot", cfg.Name)
	}
	if cfg.AutoStart {
		t.Fatal("AutoStart = true, want false")
	}
}

func TestLoadBotOverrides(t *testing.T) {
	t.Setenv("WS_URL", "ws://127.0.0.1:9000/ws")
	t.Setenv("TABLE_ID", "01J0TABLE")
	t.Setenv("BOT_NAME", "BotA")
	t.Setenv("BOT_AUTO_START", "true")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.WSURL != "ws://127.0.0.1:9000/ws" {
		t.Fatalf("WSURL = %q", cfg.WSURL)
	}
	if cfg.TableID != "01J0TABLE" || cfg.Name != "BotA" || !cfg.AutoStart {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
}
