package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"coup-table/internal/config"
)

// Event kinds a target can subscribe to.
const (
	EventMatchStarted  = "match_started"
	EventHistory       = "history"
	EventMatchFinished = "match_finished"
)

type Target struct {
	Platform string `json:"platform"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
	// Label restricts the target to tables with this label. Empty means all.
	Label          string   `json:"label"`
	EventAllowlist []string `json:"event_allowlist"`
	Enabled        bool     `json:"enabled"`
}

// wants reports whether the target takes kind events from a table labelled label.
// An empty allowlist means start and finish only; narration is opt-in.
func (t Target) wants(kind, label string) bool {
	if t.Label != "" && t.Label != label {
		return false
	}
	if len(t.EventAllowlist) == 0 {
		return kind != EventHistory
	}
	for _, k := range t.EventAllowlist {
		if k == kind {
			return true
		}
	}
	return false
}

type Config struct {
	Enabled             bool
	Targets             []Target
	Workers             int
	RetryMax            int
	RetryBase           time.Duration
	FailureThreshold    int
	CircuitOpenDuration time.Duration
	RequestTimeout      time.Duration
	DispatchBuffer      int
}

func ConfigFromServer(cfg config.ServerConfig) (Config, error) {
	out := Config{
		Enabled:        cfg.NotifyEnabled,
		Workers:        cfg.NotifyWorkers,
		RetryMax:       cfg.NotifyRetryMax,
		RetryBase:      cfg.NotifyRetryBase,
		RequestTimeout: cfg.NotifyRequestTimeout,
	}
	if !out.Enabled {
		return out, nil
	}
	raw, err := loadTargetsJSON(cfg)
	if err != nil {
		return Config{}, err
	}
	if raw == "" {
		return out, nil
	}
	targets, err := parseTargetsJSON(raw)
	if err != nil {
		return Config{}, err
	}
	out.Targets = targets
	return out, nil
}

func loadTargetsJSON(cfg config.ServerConfig) (string, error) {
	path := strings.TrimSpace(cfg.NotifyTargetsPath)
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read notify targets path %q: %w", path, err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return strings.TrimSpace(cfg.NotifyTargetsJSON), nil
}

func parseTargetsJSON(raw string) ([]Target, error) {
	var targets []Target
	if err := json.Unmarshal([]byte(raw), &targets); err != nil {
		return nil, fmt.Errorf("parse notify targets: %w", err)
	}
	filtered := make([]Target, 0, len(targets))
	for _, target := range targets {
		target.Platform = strings.ToLower(strings.TrimSpace(target.Platform))
		target.Endpoint = strings.TrimSpace(target.Endpoint)
		target.Label = strings.TrimSpace(target.Label)
		if target.Endpoint == "" || !target.Enabled {
			continue
		}
		for i := range target.EventAllowlist {
			target.EventAllowlist[i] = strings.TrimSpace(strings.ToLower(target.EventAllowlist[i]))
		}
		filtered = append(filtered, target)
	}
	return filtered, nil
}
