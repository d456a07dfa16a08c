// Package memstore provides in-memory implementations of the repository
// interfaces. It backs tests and no-db mode; the postgres repositories in
// internal/infra/db are the durable equivalents.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
	"github.com/TheWildEye/Evidential/internal/usecase"
)

// Store holds all tables behind one mutex, which serializes the
// read-modify-write sequences the durable store serializes with row locks.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	users    map[string]custody.User
	evidence map[string]custody.EvidenceItem
	log      []custody.CustodyLogEntry
	seq      map[string]int64
	lastHash map[string]string
}

func New() *Store {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Store {
	return &Store{
		now:      now,
		users:    make(map[string]custody.User),
		evidence: make(map[string]custody.EvidenceItem),
		seq:      make(map[string]int64),
		lastHash: make(map[string]string),
	}
}

func (s *Store) Evidence() usecase.EvidenceRepository    { return (*evidenceRepo)(s) }
func (s *Store) Ledger() usecase.CustodyLedgerRepository { return (*ledgerRepo)(s) }
func (s *Store) Users() usecase.UserRepository           { return (*userRepo)(s) }

type evidenceRepo Store

func (r *evidenceRepo) Create(_ context.Context, item custody.EvidenceItem) (custody.EvidenceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		return custody.EvidenceItem{}, fmt.Errorf("evidence id is required: %w", custody.ErrInvalidArgument)
	}
	if _, exists := r.evidence[item.ID]; exists {
		return custody.EvidenceItem{}, fmt.Errorf("evidence %s already exists: %w", item.ID, custody.ErrInvalidArgument)
	}
	r.evidence[item.ID] = item
	return item, nil
}

func (r *evidenceRepo) Get(_ context.Context, id string) (custody.EvidenceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (*Store)(r).getLocked(id)
}

func (r *evidenceRepo) ListAll(_ context.Context) ([]custody.EvidenceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]custody.EvidenceItem, 0, len(r.evidence))
	for _, item := range r.evidence {
		if item.DeletedAt != nil {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) getLocked(id string) (custody.EvidenceItem, error) {
	item, ok := s.evidence[id]
	if !ok || item.DeletedAt != nil {
		return custody.EvidenceItem{}, fmt.Errorf("evidence %s: %w", id, custody.ErrNotFound)
	}
	return item, nil
}

type ledgerRepo Store

func (r *ledgerRepo) Append(_ context.Context, req usecase.LedgerAppend) (custody.CustodyLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, err := (*Store)(r).getLocked(req.EvidenceID)
	if err != nil {
		return custody.CustodyLogEntry{}, err
	}

	if req.NewCurrentHash != nil {
		if item.Status == custody.StatusSealed {
			return custody.CustodyLogEntry{}, fmt.Errorf("evidence %s: %w", req.EvidenceID, custody.ErrSealed)
		}
		item.CurrentHash = *req.NewCurrentHash
	}
	if req.NewStatus != nil {
		item.Status = *req.NewStatus
	}
	if req.TombstoneAt != nil {
		at := *req.TombstoneAt
		item.DeletedAt = &at
	}
	if req.Action == custody.ActionTransferred && req.TransferredTo != "" {
		item.CurrentCustodian = req.TransferredTo
	}

	seq := r.seq[req.EvidenceID] + 1
	prevHash := r.lastHash[req.EvidenceID]
	if prevHash == "" {
		prevHash = custody.ZeroEntryHash()
	}
	entry := custody.CustodyLogEntry{
		ID:            uuid.NewString(),
		EvidenceID:    req.EvidenceID,
		Seq:           seq,
		Action:        req.Action,
		PerformedBy:   req.PerformedBy,
		TransferredTo: req.TransferredTo,
		Timestamp:     r.now().UTC(),
		HashVerified:  custody.SnapshotHashVerified(item),
		Notes:         req.Notes,
		PrevEntryHash: prevHash,
	}
	hash, err := custody.ComputeEntryHash(entry)
	if err != nil {
		return custody.CustodyLogEntry{}, err
	}
	entry.EntryHash = hash

	r.evidence[req.EvidenceID] = item
	r.seq[req.EvidenceID] = seq
	r.lastHash[req.EvidenceID] = hash
	r.log = append(r.log, entry)
	return entry, nil
}

func (r *ledgerRepo) ListFor(ctx context.Context, evidenceID string) ([]custody.CustodyLogEntry, error) {
	asc, err := r.ListChain(ctx, evidenceID)
	if err != nil {
		return nil, err
	}
	out := make([]custody.CustodyLogEntry, 0, len(asc))
	for i := len(asc) - 1; i >= 0; i-- {
		out = append(out, asc[i])
	}
	return out, nil
}

func (r *ledgerRepo) ListChain(_ context.Context, evidenceID string) ([]custody.CustodyLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []custody.CustodyLogEntry
	for _, entry := range r.log {
		if entry.EvidenceID == evidenceID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *ledgerRepo) ListAll(_ context.Context) ([]custody.CustodyLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]custody.CustodyLogEntry, len(r.log))
	copy(out, r.log)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// Tamper rewrites a stored entry's notes in place, bypassing the append-only
// contract. It touches nothing else, so it doubles as the minimal rewrite the
// chain must still catch. Test hook; never reachable through the repository
// interfaces.
func (s *Store) Tamper(evidenceID string, seq int64, notes string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.log {
		if s.log[i].EvidenceID == evidenceID && s.log[i].Seq == seq {
			s.log[i].Notes = notes
			return true
		}
	}
	return false
}

type userRepo Store

func (r *userRepo) Create(_ context.Context, user custody.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.Username == "" {
		return fmt.Errorf("username is required: %w", custody.ErrInvalidArgument)
	}
	if _, exists := r.users[user.Username]; exists {
		return fmt.Errorf("user %s already exists: %w", user.Username, custody.ErrInvalidArgument)
	}
	r.users[user.Username] = user
	return nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (custody.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return custody.User{}, fmt.Errorf("user %s: %w", username, custody.ErrNotFound)
	}
	return user, nil
}

func (r *userRepo) ListCustodyEligible(_ context.Context) ([]custody.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []custody.User
	for _, user := range r.users {
		if custody.CustodyEligible(user.Role) {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role == out[j].Role {
			return out[i].Username < out[j].Username
		}
		return out[i].Role < out[j].Role
	})
	return out, nil
}

func (r *userRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}
