// Package mirror copies every backend collection into PostgreSQL so it can
// be queried for reporting.
package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/haulops/haulctl/internal/api"
	"github.com/haulops/haulctl/internal/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Row is one record ready for storage.
type Row struct {
	ID      string
	Payload []byte // JSON
}

// Run summarizes one mirror pass.
type Run struct {
	ID       string
	Started  time.Time
	Finished time.Time
	Counts   map[string]int
}

// Lister fetches collections; *api.Client satisfies it.
type Lister interface {
	List(ctx context.Context, res api.Resource) ([]api.Record, error)
}

// Store persists mirrored rows; *DB satisfies it.
type Store interface {
	Replace(ctx context.Context, resource string, rows []Row, at time.Time) error
	RecordRun(ctx context.Context, run Run) error
}

// Mirror fetches resources concurrently and writes them to a store.
type Mirror struct {
	lister Lister
	store  Store
	log    *zap.Logger
	now    func() time.Time
	// OnResource is called after each resource is stored.
	OnResource func(res api.Resource, n int)
}

// New creates a mirror.
func New(lister Lister, store Store, log *zap.Logger) *Mirror {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mirror{lister: lister, store: store, log: log, now: time.Now}
}

// Sync fetches every resource in parallel and stores each one as soon as it
// arrives. The first failure cancels the remaining work; resources already
// stored stay stored.
func (m *Mirror) Sync(ctx context.Context, resources []api.Resource) (Run, error) {
	run := Run{ID: util.NewRequestID(), Started: m.now(), Counts: make(map[string]int)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, res := range resources {
		g.Go(func() error {
			recs, err := m.lister.List(gctx, res)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", res.Name, err)
			}

			rows, err := toRows(res, recs)
			if err != nil {
				return err
			}
			if err := m.store.Replace(gctx, res.Name, rows, m.now()); err != nil {
				return fmt.Errorf("store %s: %w", res.Name, err)
			}

			m.log.Info("mirrored resource", zap.String("resource", res.Name), zap.Int("records", len(rows)))
			mu.Lock()
			run.Counts[res.Name] = len(rows)
			if m.OnResource != nil {
				m.OnResource(res, len(rows))
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return run, err
	}

	run.Finished = m.now()
	if err := m.store.RecordRun(ctx, run); err != nil {
		return run, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// toRows keys records by id; records without an id cannot be mirrored and
// are skipped.
func toRows(res api.Resource, recs []api.Record) ([]Row, error) {
	rows := make([]Row, 0, len(recs))
	for _, rec := range recs {
		id := rec.ID(res)
		if id == "" {
			continue
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", res.Name, id, err)
		}
		rows = append(rows, Row{ID: id, Payload: payload})
	}
	return rows, nil
}
