package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
	"github.com/TheWildEye/Evidential/internal/usecase"
)

type CustodyLedgerRepository struct {
	db    *gorm.DB
	clock func() time.Time
}

func NewCustodyLedgerRepository(db *gorm.DB) *CustodyLedgerRepository {
	return &CustodyLedgerRepository{db: db, clock: time.Now}
}

// Append inserts one custody log entry and applies any evidence mutations the
// request carries in the same transaction: the evidence row is locked for the
// duration, the per-item seq is allocated under the same lock, and either
// everything commits or nothing does. The hash-verified snapshot is taken
// from the row as it stands after the mutations.
func (r *CustodyLedgerRepository) Append(ctx context.Context, req usecase.LedgerAppend) (custody.CustodyLogEntry, error) {
	if r == nil || r.db == nil {
		return custody.CustodyLogEntry{}, errDBUnavailable
	}
	var out custody.CustodyLogEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model EvidenceModel
		if err := tx.Raw(
			"SELECT * FROM evidence WHERE id = ? AND deleted_at IS NULL FOR UPDATE",
			req.EvidenceID,
		).Take(&model).Error; err != nil {
			return wrapStorage(err, "lock evidence")
		}

		updates := map[string]any{}
		if req.NewCurrentHash != nil {
			if custody.EvidenceStatus(model.Status) == custody.StatusSealed {
				return fmt.Errorf("evidence %s: %w", req.EvidenceID, custody.ErrSealed)
			}
			model.CurrentHash = *req.NewCurrentHash
			updates["current_hash"] = model.CurrentHash
		}
		if req.NewStatus != nil {
			model.Status = string(*req.NewStatus)
			updates["status"] = model.Status
		}
		if req.TombstoneAt != nil {
			at := req.TombstoneAt.UTC()
			model.DeletedAt = &at
			updates["deleted_at"] = at
		}
		if req.Action == custody.ActionTransferred && req.TransferredTo != "" {
			model.CurrentCustodian = req.TransferredTo
			updates["current_custodian"] = req.TransferredTo
		}
		if len(updates) > 0 {
			if err := tx.Model(&EvidenceModel{}).
				Where("id = ?", req.EvidenceID).
				Updates(updates).Error; err != nil {
				return wrapStorage(err, "update evidence")
			}
		}

		seq, prevHash, err := nextLedgerSeq(tx, req.EvidenceID)
		if err != nil {
			return err
		}

		entry := custody.CustodyLogEntry{
			ID:            uuid.NewString(),
			EvidenceID:    req.EvidenceID,
			Seq:           seq,
			Action:        req.Action,
			PerformedBy:   req.PerformedBy,
			TransferredTo: req.TransferredTo,
			Timestamp:     r.now().UTC().Truncate(time.Microsecond),
			HashVerified:  custody.SnapshotHashVerified(evidenceFromModel(model)),
			Notes:         req.Notes,
			PrevEntryHash: prevHash,
		}
		entryHash, err := custody.ComputeEntryHash(entry)
		if err != nil {
			return err
		}
		entry.EntryHash = entryHash

		logModel := custodyLogModelFromDomain(entry)
		if err := tx.Create(&logModel).Error; err != nil {
			return wrapStorage(err, "append custody log")
		}
		out = entry
		return nil
	})
	if err != nil {
		return custody.CustodyLogEntry{}, err
	}
	return out, nil
}

func (r *CustodyLedgerRepository) ListFor(ctx context.Context, evidenceID string) ([]custody.CustodyLogEntry, error) {
	return r.list(ctx, evidenceID, "seq DESC")
}

func (r *CustodyLedgerRepository) ListChain(ctx context.Context, evidenceID string) ([]custody.CustodyLogEntry, error) {
	return r.list(ctx, evidenceID, "seq ASC")
}

func (r *CustodyLedgerRepository) list(ctx context.Context, evidenceID, order string) ([]custody.CustodyLogEntry, error) {
	if r == nil || r.db == nil {
		return nil, errDBUnavailable
	}
	var models []CustodyLogModel
	err := r.db.WithContext(ctx).
		Where("evidence_id = ?", evidenceID).
		Order(order).
		Find(&models).Error
	if err != nil {
		return nil, wrapStorage(err, "list custody log")
	}
	return custodyLogFromModels(models), nil
}

func (r *CustodyLedgerRepository) ListAll(ctx context.Context) ([]custody.CustodyLogEntry, error) {
	if r == nil || r.db == nil {
		return nil, errDBUnavailable
	}
	var models []CustodyLogModel
	err := r.db.WithContext(ctx).
		Order("timestamp DESC, seq DESC").
		Find(&models).Error
	if err != nil {
		return nil, wrapStorage(err, "list custody log")
	}
	return custodyLogFromModels(models), nil
}

func (r *CustodyLedgerRepository) now() time.Time {
	if r != nil && r.clock != nil {
		return r.clock()
	}
	return time.Now()
}

// nextLedgerSeq allocates the next chain position for an item. The seq row is
// locked FOR UPDATE so concurrent appends to the same item serialize here.
func nextLedgerSeq(tx *gorm.DB, evidenceID string) (int64, string, error) {
	if err := tx.Exec(
		"INSERT INTO evidence_log_seq (evidence_id, seq) VALUES (?, 0) ON CONFLICT (evidence_id) DO NOTHING",
		evidenceID,
	).Error; err != nil {
		return 0, "", wrapStorage(err, "init ledger seq")
	}

	var currentSeq int64
	if err := tx.Raw(
		"SELECT seq FROM evidence_log_seq WHERE evidence_id = ? FOR UPDATE",
		evidenceID,
	).Scan(&currentSeq).Error; err != nil {
		return 0, "", wrapStorage(err, "read ledger seq")
	}
	nextSeq := currentSeq + 1
	if err := tx.Exec(
		"UPDATE evidence_log_seq SET seq = ? WHERE evidence_id = ?",
		nextSeq, evidenceID,
	).Error; err != nil {
		return 0, "", wrapStorage(err, "advance ledger seq")
	}

	prevHash := custody.ZeroEntryHash()
	if currentSeq > 0 {
		var prev CustodyLogModel
		if err := tx.
			Where("evidence_id = ? AND seq = ?", evidenceID, currentSeq).
			Take(&prev).Error; err != nil {
			return 0, "", wrapStorage(err, "read previous entry")
		}
		prevHash = prev.EntryHash
	}
	return nextSeq, prevHash, nil
}

func custodyLogModelFromDomain(entry custody.CustodyLogEntry) CustodyLogModel {
	return CustodyLogModel{
		ID:            entry.ID,
		EvidenceID:    entry.EvidenceID,
		Seq:           entry.Seq,
		Action:        string(entry.Action),
		PerformedBy:   entry.PerformedBy,
		TransferredTo: stringPtrIfNotEmpty(entry.TransferredTo),
		Timestamp:     entry.Timestamp.UTC(),
		HashVerified:  string(entry.HashVerified),
		Notes:         stringPtrIfNotEmpty(entry.Notes),
		PrevEntryHash: entry.PrevEntryHash,
		EntryHash:     entry.EntryHash,
	}
}

func custodyLogFromModels(models []CustodyLogModel) []custody.CustodyLogEntry {
	out := make([]custody.CustodyLogEntry, 0, len(models))
	for _, model := range models {
		out = append(out, custody.CustodyLogEntry{
			ID:            model.ID,
			EvidenceID:    model.EvidenceID,
			Seq:           model.Seq,
			Action:        custody.Action(model.Action),
			PerformedBy:   model.PerformedBy,
			TransferredTo: stringValue(model.TransferredTo),
			Timestamp:     model.Timestamp.UTC(),
			HashVerified:  custody.HashVerified(model.HashVerified),
			Notes:         stringValue(model.Notes),
			PrevEntryHash: model.PrevEntryHash,
			EntryHash:     model.EntryHash,
		})
	}
	return out
}
