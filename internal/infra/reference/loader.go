package reference

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/growth-monitor/internal/domain/growth"
	apperrors "github.com/yanqian/growth-monitor/pkg/errors"
)

// Load reads every required table from src in parallel and builds the
// immutable store. Any missing or malformed table aborts the load.
func Load(ctx context.Context, src Source, logger *slog.Logger) (*growth.ReferenceStore, error) {
	logger = logger.With("component", "reference.loader", "source", src.Describe())

	var (
		mu     sync.Mutex
		tables = make(map[growth.TableKey][]growth.LMSRow)
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, key := range growth.RequiredTables() {
		g.Go(func() error {
			decoded, err := src.Rows(gctx, key)
			if err != nil {
				return apperrors.Wrap(apperrors.CodeReference, "load table "+Stem(key), err)
			}
			for _, d := range decoded.Dropped {
				logger.Warn("reference row dropped", "table", Stem(key), "line", d.Line, "reason", d.Reason)
			}
			logger.Info("reference table loaded", "table", Stem(key), "rows", len(decoded.Rows), "dropped", len(decoded.Dropped))

			mu.Lock()
			tables[key] = decoded.Rows
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store, err := growth.NewReferenceStore(tables)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeReference, "build reference store", err)
	}
	logger.Info("reference store ready", "tables", len(tables), "fingerprint", store.Fingerprint())
	return store, nil
}
