package usecase

import (
	"context"
	"time"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
)

type Clock func() time.Time

type EvidenceRepository interface {
	Create(ctx context.Context, item custody.EvidenceItem) (custody.EvidenceItem, error)
	Get(ctx context.Context, id string) (custody.EvidenceItem, error)
	ListAll(ctx context.Context) ([]custody.EvidenceItem, error)
}

// LedgerAppend describes one custody log append. Optional mutation fields are
// applied to the evidence row in the same transaction as the log insert, so
// no mutation path can bypass the audit trail. The repository computes the
// hash-verified snapshot from the item's hashes as they stand inside that
// transaction, after any NewCurrentHash is applied.
type LedgerAppend struct {
	EvidenceID    string
	Action        custody.Action
	PerformedBy   string
	TransferredTo string
	Notes         string

	NewCurrentHash *string
	NewStatus      *custody.EvidenceStatus
	TombstoneAt    *time.Time
}

type CustodyLedgerRepository interface {
	Append(ctx context.Context, req LedgerAppend) (custody.CustodyLogEntry, error)
	// ListFor returns entries newest-first, the canonical display order.
	ListFor(ctx context.Context, evidenceID string) ([]custody.CustodyLogEntry, error)
	// ListChain returns entries in insertion order (seq ascending), the order
	// chain verification depends on.
	ListChain(ctx context.Context, evidenceID string) ([]custody.CustodyLogEntry, error)
	ListAll(ctx context.Context) ([]custody.CustodyLogEntry, error)
}

type UserRepository interface {
	Create(ctx context.Context, user custody.User) error
	GetByUsername(ctx context.Context, username string) (custody.User, error)
	ListCustodyEligible(ctx context.Context) ([]custody.User, error)
	Count(ctx context.Context) (int64, error)
}

// ContentStore is the blob collaborator: it holds evidence content bytes and
// is addressed by opaque refs the core records per item.
type ContentStore interface {
	Put(ctx context.Context, evidenceID string, content []byte) (ref string, err error)
	Get(ctx context.Context, ref string) ([]byte, error)
}
