package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
)

// VerifyCustodyChain replays an item's custody log in insertion order and
// checks the hash chain: contiguous sequence numbers, each entry linked to
// its predecessor's hash, and every stored entry hash matching a recompute.
// An empty log is valid. The first inconsistency fails the walk.
func VerifyCustodyChain(ctx context.Context, ledger CustodyLedgerRepository, evidenceID string) error {
	if ledger == nil {
		return errors.New("custody ledger required")
	}
	entries, err := ledger.ListChain(ctx, evidenceID)
	if err != nil {
		return err
	}

	expectedSeq := int64(1)
	prevHash := custody.ZeroEntryHash()
	for _, entry := range entries {
		if entry.EvidenceID != evidenceID {
			return fmt.Errorf("custody chain evidence mismatch at seq %d", entry.Seq)
		}
		if entry.Seq != expectedSeq {
			return fmt.Errorf("custody chain seq mismatch: expected %d got %d", expectedSeq, entry.Seq)
		}
		if entry.PrevEntryHash != prevHash {
			return fmt.Errorf("custody chain prev hash mismatch at seq %d", entry.Seq)
		}
		if entry.Timestamp.IsZero() {
			return fmt.Errorf("custody chain missing timestamp at seq %d", entry.Seq)
		}
		expectedHash, err := custody.ComputeEntryHash(entry)
		if err != nil {
			return fmt.Errorf("custody chain hash compute failed at seq %d: %w", entry.Seq, err)
		}
		if expectedHash != entry.EntryHash {
			return fmt.Errorf("custody chain hash mismatch at seq %d", entry.Seq)
		}
		prevHash = entry.EntryHash
		expectedSeq++
	}
	return nil
}
