// Package provisioning owns store lifecycles: it opens the general store at
// process start and provisions one business store file per registered
// business on first access.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/example/booking-core/internal/persistence/sqlite"
)

// DefaultStoreCacheSize bounds the number of business stores held open at
// once when the caller does not configure a limit.
const DefaultStoreCacheSize = 16

// ErrInvalidBusinessName is returned when a business username cannot be used
// as a store file name.
var ErrInvalidBusinessName = errors.New("provisioning: invalid business username")

// Manager provisions and caches the database stores. Business store handles
// live in an LRU cache; evicting a handle closes its connection, so the
// number of open store files stays bounded no matter how many businesses
// register.
type Manager struct {
	dataDir string
	logger  *slog.Logger
	general *sqlite.GeneralStore

	mu     sync.Mutex
	stores *lru.Cache[string, *sqlite.BusinessStore]
	closed bool
}

// Config holds the manager's settings.
type Config struct {
	// DataDir is the directory all store files live under.
	DataDir string
	// GeneralDB is the general store file name inside DataDir.
	GeneralDB string
	// StoreCacheSize bounds the open business store handles; zero means
	// DefaultStoreCacheSize.
	StoreCacheSize int
}

// Open opens (creating if necessary) the general store and returns a manager
// ready to provision business stores. A process that cannot open the general
// store has no usable persistence; callers should treat an error as fatal.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.GeneralDB == "" {
		cfg.GeneralDB = "general.db"
	}
	if cfg.StoreCacheSize <= 0 {
		cfg.StoreCacheSize = DefaultStoreCacheSize
	}

	general, err := sqlite.OpenGeneral(ctx, filepath.Join(cfg.DataDir, cfg.GeneralDB))
	if err != nil {
		return nil, err
	}

	m := &Manager{dataDir: cfg.DataDir, logger: logger, general: general}
	stores, err := lru.NewWithEvict(cfg.StoreCacheSize, func(username string, store *sqlite.BusinessStore) {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("failed to close evicted business store", "business", username, "error", cerr)
		}
	})
	if err != nil {
		_ = general.Close()
		return nil, fmt.Errorf("provisioning: create store cache: %w", err)
	}
	m.stores = stores
	return m, nil
}

// General returns the shared general store.
func (m *Manager) General() *sqlite.GeneralStore { return m.general }

// ConnectToBusiness verifies that the username names a registered business
// and then opens (creating on first use) its store. The boolean result is
// false when the username is not a known business. Schema creation is
// idempotent, so racing processes opening the same file are safe; in-process
// calls are serialized here.
func (m *Manager) ConnectToBusiness(ctx context.Context, username string) (*sqlite.BusinessStore, bool, error) {
	known, err := m.general.Businesses.IsBusiness(ctx, username)
	if err != nil {
		return nil, false, err
	}
	if !known {
		return nil, false, nil
	}

	if !validStoreName(username) {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidBusinessName, username)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, false, errors.New("provisioning: manager closed")
	}

	if store, ok := m.stores.Get(username); ok {
		return store, true, nil
	}

	store, err := sqlite.OpenBusiness(ctx, filepath.Join(m.dataDir, username+".db"), m.logger)
	if err != nil {
		return nil, false, err
	}
	m.stores.Add(username, store)
	m.logger.Info("provisioned business store", "business", username)
	return store, true, nil
}

// Close closes every open business store and then the general store.
func (m *Manager) Close() error {
	m.mu.Lock()
	m.closed = true
	// Purge fires the eviction callback for each cached handle.
	m.stores.Purge()
	m.mu.Unlock()

	return m.general.Close()
}

// validStoreName rejects usernames that would escape the data directory
// when used as a file name.
func validStoreName(username string) bool {
	if username == "" || username == "." || username == ".." {
		return false
	}
	return !strings.ContainsAny(username, `/\`)
}
