package testfixtures

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/booking-core/internal/persistence/sqlite"
)

// StoreHarness backs persistence tests with a temporary general store and
// one business store, both deleted when the test finishes.
type StoreHarness struct {
	General  *sqlite.GeneralStore
	Business *sqlite.BusinessStore

	cleanup func()
}

// Close releases the harness's store handles.
func (h *StoreHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewStoreHarness opens both stores under a temporary directory and
// registers cleanup with the provided testing.TB.
func NewStoreHarness(tb testing.TB) *StoreHarness {
	tb.Helper()

	dir := tb.TempDir()
	ctx := context.Background()

	general, err := sqlite.OpenGeneral(ctx, filepath.Join(dir, "general.db"))
	if err != nil {
		tb.Fatalf("failed to open general store: %v", err)
	}

	business, err := sqlite.OpenBusiness(ctx, filepath.Join(dir, "business.db"), slog.Default())
	if err != nil {
		_ = general.Close()
		tb.Fatalf("failed to open business store: %v", err)
	}

	harness := &StoreHarness{
		General:  general,
		Business: business,
		cleanup: func() {
			_ = business.Close()
			_ = general.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
