package table

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"coup-table/internal/game"

	"github.com/rs/zerolog/log"
)

var (
	ErrTableLimit    = errors.New("table_limit_reached")
	ErrTableNotFound = errors.New("table_not_found")
)

const defaultTableTTL = 30 * time.Minute

type ManagerConfig struct {
	MaxTables int
	// TableTTL is how long a finished or abandoned table is kept around.
	TableTTL time.Duration
	Defaults game.Options
	NewID    func() string
	Recorder Recorder
	Shuffler game.Shuffler
}

// Manager owns every live table.
type Manager struct {
	cfg    ManagerConfig
	engine *game.Engine

	mu     sync.Mutex
	tables map[string]*Table
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.TableTTL <= 0 {
		cfg.TableTTL = defaultTableTTL
	}
	if cfg.NewID == nil {
		panic("table: ManagerConfig.NewID is required")
	}
	return &Manager{
		cfg:    cfg,
		engine: game.NewEngine(cfg.Shuffler),
		tables: map[string]*Table{},
	}
}

// Create opens a table. Zero-valued fields of opts fall back to the
// manager defaults.
func (m *Manager) Create(label string, opts game.Options) (*Table, error) {
	if opts.RoleSet == "" {
		opts.RoleSet = m.cfg.Defaults.RoleSet
	}
	if opts.MaxPlayers == 0 {
		opts.MaxPlayers = m.cfg.Defaults.MaxPlayers
	}
	if !opts.AllowObservers {
		opts.AllowObservers = m.cfg.Defaults.AllowObservers
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.MaxTables > 0 && len(m.tables) >= m.cfg.MaxTables {
		return nil, ErrTableLimit
	}
	id := m.cfg.NewID()
	t, err := New(id, label, opts, m.engine, m.cfg.Recorder)
	if err != nil {
		return nil, err
	}
	m.tables[id] = t
	metricTablesActive.Add(1)
	log.Info().Str("table_id", id).Str("label", label).Str("role_set", t.game.RoleSet.Name).Msg("table created")
	return t, nil
}

func (m *Manager) Get(id string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[id]
	if !ok {
		return nil, ErrTableNotFound
	}
	return t, nil
}

// List returns every table, oldest first.
func (m *Manager) List() []Summary {
	m.mu.Lock()
	tables := make([]*Table, 0, len(m.tables))
	for _, t := range m.tables {
		tables = append(tables, t)
	}
	m.mu.Unlock()

	out := make([]Summary, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.sweep(now)
			}
		}
	}()
}

// sweep closes tables that finished or lost every player more than a TTL ago.
func (m *Manager) sweep(now time.Time) int {
	m.mu.Lock()
	var expired []*Table
	for id, t := range m.tables {
		updated, connected, over := t.idleSince()
		if (over || !connected) && now.Sub(updated) >= m.cfg.TableTTL {
			expired = append(expired, t)
			delete(m.tables, id)
		}
	}
	m.mu.Unlock()

	for _, t := range expired {
		t.Close()
		metricTablesActive.Add(-1)
		log.Info().Str("table_id", t.id).Msg("table expired")
	}
	return len(expired)
}

// Close shuts down every table.
func (m *Manager) Close() {
	m.mu.Lock()
	tables := m.tables
	m.tables = map[string]*Table{}
	m.mu.Unlock()
	for _, t := range tables {
		t.Close()
		metricTablesActive.Add(-1)
	}
}
