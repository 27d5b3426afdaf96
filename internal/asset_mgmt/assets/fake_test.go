package assets

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"gestion-activos-backend/internal/asset_mgmt/assettypes"
	"gestion-activos-backend/internal/asset_mgmt/ledger"
	"gestion-activos-backend/internal/platform/dates"
	"gestion-activos-backend/internal/platform/textnorm"
)

// memRepo is an in-memory Repository. Transactions are serialized by a mutex
// and roll back by restoring a snapshot.
type memRepo struct {
	mu      sync.Mutex
	types   map[uint64]assettypes.Type
	assets  map[uint64]Asset
	records []ledger.Record
	nextID  uint64
	nextRec uint64

	// hooks
	staleTransition bool
	duplicateOpen   bool
	missingOpen     bool
}

func newMemRepo() *memRepo {
	return &memRepo{types: map[uint64]assettypes.Type{}, assets: map[uint64]Asset{}}
}

func (m *memRepo) addType(id uint64, name string, prefix *string) {
	m.types[id] = assettypes.Type{ID: id, Name: name, Prefix: prefix}
}

func (m *memRepo) asset(id uint64) Asset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assets[id]
}

func (m *memRepo) recordsFor(id uint64) []ledger.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.Record
	for _, r := range m.records {
		if r.AssetID == id {
			out = append(out, r)
		}
	}
	return out
}

func (m *memRepo) openRecords(id uint64) int {
	n := 0
	for _, r := range m.recordsFor(id) {
		if r.IsOpen() {
			n++
		}
	}
	return n
}

func (m *memRepo) GetAsset(_ context.Context, id uint64) (*Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{m}).get(id), nil
}

func (m *memRepo) ListAssets(_ context.Context, includeDecommissioned bool) ([]Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Asset{}
	for id := range m.assets {
		a := (&memTx{m}).get(id)
		if !includeDecommissioned && a.Status == StatusDecommissioned {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) FindTypeByName(_ context.Context, name string) (*assettypes.Type, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.types {
		if textnorm.Equal(t.Name, name) {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

// WithinTx runs fn under one lock, standing in for the asset row lock.
func (m *memRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, q Queries) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	assets := make(map[uint64]Asset, len(m.assets))
	for k, v := range m.assets {
		assets[k] = v
	}
	records := append([]ledger.Record(nil), m.records...)
	nextID, nextRec := m.nextID, m.nextRec

	if err := fn(ctx, &memTx{m}); err != nil {
		m.assets, m.records, m.nextID, m.nextRec = assets, records, nextID, nextRec
		return err
	}
	return nil
}

type memTx struct{ m *memRepo }

func (t *memTx) get(id uint64) *Asset {
	a, ok := t.m.assets[id]
	if !ok {
		return nil
	}
	a.TypeName = t.m.types[a.TypeID].Name
	return &a
}

func (t *memTx) LockAsset(_ context.Context, id uint64) (*Asset, error) { return t.get(id), nil }
func (t *memTx) GetAsset(_ context.Context, id uint64) (*Asset, error)  { return t.get(id), nil }

func (t *memTx) CodeKeyTaken(_ context.Context, key string, exceptID uint64) (bool, error) {
	for id, a := range t.m.assets {
		if id != exceptID && textnorm.Key(a.Code) == key {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) GetType(_ context.Context, id uint64) (*assettypes.Type, error) {
	ty, ok := t.m.types[id]
	if !ok {
		return nil, nil
	}
	return &ty, nil
}

func (t *memTx) CodesWithPrefix(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for _, a := range t.m.assets {
		if len(a.Code) >= len(prefix) && textnorm.Equal(a.Code[:len(prefix)], prefix) {
			out = append(out, a.Code)
		}
	}
	return out, nil
}

func (t *memTx) InsertAsset(_ context.Context, a *Asset, _ string) (uint64, error) {
	t.m.nextID++
	row := *a
	row.ID = t.m.nextID
	row.Status = StatusAvailable
	t.m.assets[row.ID] = row
	return row.ID, nil
}

func (t *memTx) UpdateAsset(_ context.Context, a *Asset, _ string) error {
	cur := t.m.assets[a.ID]
	row := *a
	row.Status, row.DecommissionReason = cur.Status, cur.DecommissionReason
	t.m.assets[a.ID] = row
	return nil
}

func (t *memTx) TransitionStatus(_ context.Context, id uint64, from, to Status, reason *string) (bool, error) {
	a, ok := t.m.assets[id]
	if !ok || a.Status != from || t.m.staleTransition {
		return false, nil
	}
	a.Status, a.DecommissionReason = to, reason
	t.m.assets[id] = a
	return true, nil
}

func (t *memTx) DeleteAsset(_ context.Context, id uint64) (int64, error) {
	if _, ok := t.m.assets[id]; !ok {
		return 0, nil
	}
	delete(t.m.assets, id)
	return 1, nil
}

func (t *memTx) OpenAssignment(_ context.Context, assetID uint64, snap ledger.Snapshot, custodian string, assignedOn, dueBackOn dates.Date) (*ledger.Record, error) {
	if t.m.duplicateOpen {
		return nil, ledger.ErrDuplicateOpen
	}
	for _, r := range t.m.records {
		if r.AssetID == assetID && r.IsOpen() {
			return nil, ledger.ErrDuplicateOpen
		}
	}
	t.m.nextRec++
	r := ledger.Record{
		ID: t.m.nextRec, AssetID: assetID, AssetCode: snap.Code, AssetReference: snap.Reference,
		Custodian: custodian, AssignedOn: assignedOn, DueBackOn: dueBackOn,
	}
	t.m.records = append(t.m.records, r)
	return &r, nil
}

func (t *memTx) CloseAssignment(_ context.Context, assetID uint64, returnedOn dates.Date) (*ledger.Record, error) {
	if t.m.missingOpen {
		return nil, ledger.ErrNoOpenRecord
	}
	for i := len(t.m.records) - 1; i >= 0; i-- {
		r := &t.m.records[i]
		if r.AssetID == assetID && r.IsOpen() {
			d := returnedOn
			r.ReturnedOn = &d
			out := *r
			return &out, nil
		}
	}
	return nil, ledger.ErrNoOpenRecord
}

func (t *memTx) DeleteAssignments(_ context.Context, assetID uint64) (int64, error) {
	kept := t.m.records[:0:0]
	var n int64
	for _, r := range t.m.records {
		if r.AssetID == assetID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	t.m.records = kept
	return n, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testToday = dates.New(2025, time.March, 10)

func newTestService(repo Repository) *Service {
	return NewService(repo, zap.NewNop(),
		WithClock(fixedClock{time.Date(2025, time.March, 10, 15, 4, 0, 0, time.UTC)}),
		WithLocation(time.UTC),
	)
}

func strPtr(s string) *string { return &s }
