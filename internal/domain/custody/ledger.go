package custody

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

type Action string

const (
	ActionCreated        Action = "Created"
	ActionTransferred    Action = "Transferred"
	ActionVerified       Action = "Integrity Verified"
	ActionSealed         Action = "Sealed"
	ActionContentUpdated Action = "Content Updated"
	ActionDeleted        Action = "Deleted"
)

type HashVerified string

const (
	HashPass HashVerified = "PASS"
	HashFail HashVerified = "FAIL"
)

// CustodyLogEntry is one event in an evidence item's custody chain. Entries
// are append-only: once written they are never mutated or removed, even when
// the evidence row they describe changes later.
type CustodyLogEntry struct {
	ID            string
	EvidenceID    string
	Seq           int64
	Action        Action
	PerformedBy   string
	TransferredTo string
	Timestamp     time.Time
	HashVerified  HashVerified
	Notes         string
	PrevEntryHash string
	EntryHash     string
}

const ledgerChainVersion = "custody_chain_v1"

// ZeroEntryHash anchors the first entry of every per-item chain.
func ZeroEntryHash() string {
	return "0000000000000000000000000000000000000000000000000000000000000000"
}

// ComputeEntryHash derives the chain hash for an entry. The hash covers the
// previous entry's hash, so rewriting any entry breaks the chain from that
// point forward. Seq and PrevEntryHash must already be assigned.
func ComputeEntryHash(entry CustodyLogEntry) (string, error) {
	if entry.EvidenceID == "" || entry.Action == "" {
		return "", fmt.Errorf("entry missing evidence_id or action: %w", ErrInvalidArgument)
	}
	if entry.Seq <= 0 || entry.PrevEntryHash == "" {
		return "", fmt.Errorf("entry missing seq or prev_entry_hash: %w", ErrInvalidArgument)
	}
	data := fmt.Sprintf("%s|%s|%d|%s|%s|%s|%s|%s|%s|%s",
		ledgerChainVersion,
		entry.PrevEntryHash,
		entry.Seq,
		entry.EvidenceID,
		entry.Action,
		entry.PerformedBy,
		entry.TransferredTo,
		entry.HashVerified,
		notesDigest(entry.Notes),
		entry.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:]), nil
}

// notesDigest folds the free-text notes into a fixed token so a "|" in the
// text cannot masquerade as a field boundary in the canonical string.
func notesDigest(notes string) string {
	sum := sha256.Sum256([]byte(notes))
	return hex.EncodeToString(sum[:])
}

// SnapshotHashVerified is the integrity stamp recorded on every entry: a
// comparison of the item's hashes at append time, not a property of the
// action being logged.
func SnapshotHashVerified(item EvidenceItem) HashVerified {
	if item.OriginalHash == item.CurrentHash {
		return HashPass
	}
	return HashFail
}
