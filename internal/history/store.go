package history

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-pool-snapshot/internal/adapter"
	"github.com/feral-file/ff-pool-snapshot/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Store is an in-memory, self-pruning time series of market-cap snapshots per pool.
// History lives for the process lifetime only.
//
//go:generate mockgen -source=store.go -destination=../mocks/history_store.go -package=mocks -mock_names=Store=MockHistoryStore
type Store interface {
	// Record appends a snapshot at the current time and prunes the pool's expired snapshots
	Record(pool common.Address, marketCap, price, volume decimal.Decimal) domain.MarketCapSnapshot

	// RecordAt appends a snapshot at an explicit time and prunes the pool's expired snapshots
	RecordAt(pool common.Address, at time.Time, marketCap, price, volume decimal.Decimal) domain.MarketCapSnapshot

	// Nearest returns the snapshot closest to target if it is within maxDiff
	Nearest(pool common.Address, target time.Time, maxDiff time.Duration) (*domain.MarketCapSnapshot, bool)
}

type store struct {
	clock     adapter.Clock
	retention time.Duration

	mu      sync.RWMutex
	history map[common.Address]map[int64]domain.MarketCapSnapshot
}

// NewStore creates a history store keeping snapshots for retention (24h when zero)
func NewStore(clock adapter.Clock, retention time.Duration) Store {
	if retention <= 0 {
		retention = domain.SNAPSHOT_RETENTION
	}
	return &store{
		clock:     clock,
		retention: retention,
		history:   make(map[common.Address]map[int64]domain.MarketCapSnapshot),
	}
}

func (s *store) Record(pool common.Address, marketCap, price, volume decimal.Decimal) domain.MarketCapSnapshot {
	return s.RecordAt(pool, s.clock.Now(), marketCap, price, volume)
}

func (s *store) RecordAt(pool common.Address, at time.Time, marketCap, price, volume decimal.Decimal) domain.MarketCapSnapshot {
	snapshot := domain.MarketCapSnapshot{
		PoolAddress: pool,
		Timestamp:   at.Unix(),
		MarketCap:   marketCap,
		Price:       price,
		Volume:      volume,
	}

	cutoff := s.clock.Now().Add(-s.retention).Unix()

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, ok := s.history[pool]
	if !ok {
		snapshots = make(map[int64]domain.MarketCapSnapshot)
		s.history[pool] = snapshots
	}
	snapshots[snapshot.Timestamp] = snapshot

	for ts := range snapshots {
		if ts < cutoff {
			delete(snapshots, ts)
		}
	}

	return snapshot
}

// Nearest returns the closest snapshot to target. Equal distances resolve to the earlier snapshot.
func (s *store) Nearest(pool common.Address, target time.Time, maxDiff time.Duration) (*domain.MarketCapSnapshot, bool) {
	targetUnix := target.Unix()
	maxDiffSeconds := int64(maxDiff / time.Second)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var nearest *domain.MarketCapSnapshot
	var nearestDiff int64
	for ts, snapshot := range s.history[pool] {
		diff := abs(ts - targetUnix)
		if diff > maxDiffSeconds {
			continue
		}
		if nearest == nil || diff < nearestDiff || (diff == nearestDiff && ts < nearest.Timestamp) {
			found := snapshot
			nearest, nearestDiff = &found, diff
		}
	}

	return nearest, nearest != nil
}

// PercentChange returns (current - previous) / previous * 100 rounded to 2 decimals,
// or zero when previous is zero
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
