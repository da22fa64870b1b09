package snapshot_test

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/jhoicas/inventario-sync/internal/application/snapshot"
	"github.com/jhoicas/inventario-sync/internal/application/uom"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
)

// fakeClient sirve páginas por mercado; el token es el índice de la página siguiente.
type fakeClient struct {
	mu     sync.Mutex
	pages  map[string][]snapshot.Page
	failAt map[string]int // índice de página que falla
	calls  map[string]int
}

func (c *fakeClient) FetchPage(_ context.Context, market, token string, _ int) (snapshot.Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[market]++
	idx := 0
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil {
			return snapshot.Page{}, err
		}
		idx = n
	}
	if at, ok := c.failAt[market]; ok && at == idx {
		return snapshot.Page{}, errors.New("503 service unavailable")
	}
	pages := c.pages[market]
	if idx >= len(pages) {
		return snapshot.Page{}, nil
	}
	return pages[idx], nil
}

type fakeLookup struct {
	asins map[string]string
	fail  map[string]bool
}

func (l *fakeLookup) LookupIdentifier(_ context.Context, sku, _ string) (string, error) {
	if l.fail[sku] {
		return "", errors.New("listing no encontrado")
	}
	return l.asins[sku], nil
}

type fakeFactory struct {
	lookup *fakeLookup
	err    error
}

func (f *fakeFactory) ForMarket(string) (snapshot.IdentifierLookup, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.lookup, nil
}

type fakeUOMLoader struct {
	entries []entity.UOMEntry
	err     error
}

func (l *fakeUOMLoader) RefreshAndLoad(context.Context) (uom.Mapping, error) {
	if l.err != nil {
		return uom.Mapping{}, l.err
	}
	return uom.NewMapping(l.entries), nil
}

// memSnapshots simula inventory_snapshot con upsert último-gana.
type memSnapshots struct {
	rows  map[entity.SnapshotKey]entity.SnapshotRow
	order []entity.SnapshotKey
	err   error
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{rows: map[entity.SnapshotKey]entity.SnapshotRow{}}
}

func (m *memSnapshots) Upsert(_ context.Context, rows []entity.SnapshotRow) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	for _, r := range rows {
		if _, ok := m.rows[r.Key()]; !ok {
			m.order = append(m.order, r.Key())
		}
		m.rows[r.Key()] = r
	}
	return len(rows), nil
}

func (m *memSnapshots) ListAll(context.Context) ([]entity.SnapshotRow, error) {
	out := make([]entity.SnapshotRow, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.rows[k])
	}
	return out, nil
}

func (m *memSnapshots) Truncate(context.Context) error {
	m.rows = map[entity.SnapshotKey]entity.SnapshotRow{}
	m.order = nil
	return nil
}

type memIdentifiers struct {
	observed []entity.IdentifierObservation
}

func (m *memIdentifiers) Record(_ context.Context, obs []entity.IdentifierObservation) (int, error) {
	m.observed = append(m.observed, obs...)
	return len(obs), nil
}

func (m *memIdentifiers) LatestBySKU(context.Context) (map[string]string, error) {
	out := map[string]string{}
	for _, o := range m.observed {
		out[o.SellerSKU] = o.ASIN
	}
	return out, nil
}

type fakeTx struct {
	snapshots   *memSnapshots
	identifiers *memIdentifiers
	runs        int
}

func (f *fakeTx) Run(_ context.Context, fn func(repos repository.TxRepositories) error) error {
	f.runs++
	return fn(repository.TxRepositories{Snapshots: f.snapshots, Identifiers: f.identifiers})
}

type fakeLock struct {
	err      error
	released bool
}

func (l *fakeLock) TryLock(context.Context, string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	return func() { l.released = true }, nil
}
