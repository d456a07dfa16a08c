package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
)

// Actor identifies the authenticated caller of an operation. The capability
// check is always resolved fresh from the static permission table; no
// capability state travels with the actor.
type Actor struct {
	Username string
	Role     custody.Role
}

// CustodyService orchestrates evidence and ledger operations. Every mutating
// operation checks the actor's capability before touching storage; a denied
// check leaves no trace in the ledger.
type CustodyService struct {
	Evidence EvidenceRepository
	Ledger   CustodyLedgerRepository
	Content  ContentStore
	Clock    Clock

	// VerifyRequiresCapability gates VerifyIntegrity behind the verify
	// capability. The default (false) preserves the historical behavior
	// where any authenticated user may run an integrity check.
	VerifyRequiresCapability bool
}

func NewCustodyService(evidence EvidenceRepository, ledger CustodyLedgerRepository, content ContentStore) *CustodyService {
	return &CustodyService{
		Evidence: evidence,
		Ledger:   ledger,
		Content:  content,
		Clock:    time.Now,
	}
}

type CreateEvidenceInput struct {
	CaseNumber   string
	Description  string
	EvidenceType string
	Content      []byte
}

type VerificationResult struct {
	IsValid      bool
	Status       custody.HashVerified
	OriginalHash string
	CurrentHash  string
}

func (s *CustodyService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *CustodyService) require(actor Actor, capability custody.Capability) error {
	if actor.Username == "" {
		return custody.ErrUnauthorized
	}
	if !custody.HasCapability(actor.Role, capability) {
		return fmt.Errorf("%s requires %s: %w", actor.Role, capability, custody.ErrPermissionDenied)
	}
	return nil
}

// CreateEvidence registers a new item. With content bytes the integrity
// baseline is the content hash; without them it falls back to a metadata
// hash, a weaker baseline since there is no real object to fingerprint.
func (s *CustodyService) CreateEvidence(ctx context.Context, actor Actor, input CreateEvidenceInput) (custody.EvidenceItem, error) {
	if err := s.require(actor, custody.CapCreate); err != nil {
		return custody.EvidenceItem{}, err
	}
	if strings.TrimSpace(input.CaseNumber) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.EvidenceType) == "" {
		return custody.EvidenceItem{}, fmt.Errorf("case_number, description and evidence_type are required: %w", custody.ErrInvalidArgument)
	}

	createdAt := s.now()
	item := custody.EvidenceItem{
		ID:               uuid.NewString(),
		CaseNumber:       input.CaseNumber,
		Description:      input.Description,
		EvidenceType:     input.EvidenceType,
		Status:           custody.StatusActive,
		CreatedAt:        createdAt,
		CreatedBy:        actor.Username,
		CurrentCustodian: actor.Username,
	}

	if len(input.Content) > 0 {
		if s.Content == nil {
			return custody.EvidenceItem{}, fmt.Errorf("content store unavailable: %w", custody.ErrStorage)
		}
		ref, err := s.Content.Put(ctx, item.ID, input.Content)
		if err != nil {
			return custody.EvidenceItem{}, fmt.Errorf("store content: %w", errors.Join(custody.ErrStorage, err))
		}
		item.ContentRef = ref
		item.OriginalHash = custody.HashContent(input.Content)
	} else {
		item.OriginalHash = custody.MetadataHash(input.CaseNumber, input.Description, input.EvidenceType, createdAt)
	}
	item.CurrentHash = item.OriginalHash

	created, err := s.Evidence.Create(ctx, item)
	if err != nil {
		return custody.EvidenceItem{}, err
	}
	if _, err := s.Ledger.Append(ctx, LedgerAppend{
		EvidenceID:  created.ID,
		Action:      custody.ActionCreated,
		PerformedBy: actor.Username,
	}); err != nil {
		return custody.EvidenceItem{}, err
	}
	return created, nil
}

// TransferEvidence hands custody to another user. The custodian update and
// the Transferred log entry commit together or not at all.
func (s *CustodyService) TransferEvidence(ctx context.Context, actor Actor, evidenceID, transferredTo, notes string) (custody.CustodyLogEntry, error) {
	if err := s.require(actor, custody.CapTransfer); err != nil {
		return custody.CustodyLogEntry{}, err
	}
	if strings.TrimSpace(transferredTo) == "" {
		return custody.CustodyLogEntry{}, fmt.Errorf("transfer target is required: %w", custody.ErrInvalidArgument)
	}
	return s.Ledger.Append(ctx, LedgerAppend{
		EvidenceID:    evidenceID,
		Action:        custody.ActionTransferred,
		PerformedBy:   actor.Username,
		TransferredTo: transferredTo,
		Notes:         notes,
	})
}

// VerifyIntegrity compares the item's original and current hashes. A mismatch
// flips an Active item to Compromised; Compromised is terminal and a Sealed
// item that fails verification is also marked Compromised, since sealing
// freezes content, not verification. Every call appends exactly one ledger
// entry.
func (s *CustodyService) VerifyIntegrity(ctx context.Context, actor Actor, evidenceID string) (VerificationResult, error) {
	if actor.Username == "" {
		return VerificationResult{}, custody.ErrUnauthorized
	}
	if s.VerifyRequiresCapability {
		if err := s.require(actor, custody.CapVerify); err != nil {
			return VerificationResult{}, err
		}
	}

	item, err := s.Evidence.Get(ctx, evidenceID)
	if err != nil {
		return VerificationResult{}, err
	}

	result := VerificationResult{
		IsValid:      item.OriginalHash == item.CurrentHash,
		OriginalHash: item.OriginalHash,
		CurrentHash:  item.CurrentHash,
	}
	result.Status = custody.HashPass
	if !result.IsValid {
		result.Status = custody.HashFail
	}

	req := LedgerAppend{
		EvidenceID:  evidenceID,
		Action:      custody.ActionVerified,
		PerformedBy: actor.Username,
		Notes:       fmt.Sprintf("Hash check: %s", result.Status),
	}
	if !result.IsValid && item.Status != custody.StatusCompromised {
		status := custody.StatusCompromised
		req.NewStatus = &status
	}
	if _, err := s.Ledger.Append(ctx, req); err != nil {
		return VerificationResult{}, err
	}
	return result, nil
}

// SealEvidence freezes an item for court. Sealing applies from Active or
// Compromised; a compromised item keeps its failed snapshot in the record.
func (s *CustodyService) SealEvidence(ctx context.Context, actor Actor, evidenceID string) (custody.CustodyLogEntry, error) {
	if err := s.require(actor, custody.CapSeal); err != nil {
		return custody.CustodyLogEntry{}, err
	}
	status := custody.StatusSealed
	return s.Ledger.Append(ctx, LedgerAppend{
		EvidenceID:  evidenceID,
		Action:      custody.ActionSealed,
		PerformedBy: actor.Username,
		Notes:       "Evidence sealed for court",
		NewStatus:   &status,
	})
}

// UpdateContent replaces the item's content bytes and recomputes its current
// hash, leaving original_hash untouched. This is the operation that models
// tampering or legitimate content change, so it is gated behind the delete
// capability and always leaves a Content Updated entry in the ledger.
//
// The ledger append commits before the blob write: a failed append, or a seal
// that lands between the pre-check here and the repository's in-transaction
// re-check, leaves the stored bytes untouched. If the blob write itself fails
// the record carries the new hash while the store still holds the old bytes,
// and the caller gets the storage error.
func (s *CustodyService) UpdateContent(ctx context.Context, actor Actor, evidenceID string, content []byte) (custody.CustodyLogEntry, error) {
	if err := s.require(actor, custody.CapDelete); err != nil {
		return custody.CustodyLogEntry{}, err
	}
	if len(content) == 0 {
		return custody.CustodyLogEntry{}, fmt.Errorf("content is required: %w", custody.ErrInvalidArgument)
	}
	item, err := s.Evidence.Get(ctx, evidenceID)
	if err != nil {
		return custody.CustodyLogEntry{}, err
	}
	if item.Status == custody.StatusSealed {
		return custody.CustodyLogEntry{}, fmt.Errorf("content of %s is frozen: %w", evidenceID, custody.ErrSealed)
	}
	if s.Content == nil {
		return custody.CustodyLogEntry{}, fmt.Errorf("content store unavailable: %w", custody.ErrStorage)
	}
	newHash := custody.HashContent(content)
	entry, err := s.Ledger.Append(ctx, LedgerAppend{
		EvidenceID:     evidenceID,
		Action:         custody.ActionContentUpdated,
		PerformedBy:    actor.Username,
		Notes:          "Content replaced; current hash recomputed",
		NewCurrentHash: &newHash,
	})
	if err != nil {
		return custody.CustodyLogEntry{}, err
	}
	if _, err := s.Content.Put(ctx, evidenceID, content); err != nil {
		return custody.CustodyLogEntry{}, fmt.Errorf("store content: %w", errors.Join(custody.ErrStorage, err))
	}
	return entry, nil
}

// DeleteEvidence tombstones an item: it disappears from listings and lookups,
// while its custody log remains intact as the authoritative record.
func (s *CustodyService) DeleteEvidence(ctx context.Context, actor Actor, evidenceID string) error {
	if err := s.require(actor, custody.CapDelete); err != nil {
		return err
	}
	at := s.now()
	_, err := s.Ledger.Append(ctx, LedgerAppend{
		EvidenceID:  evidenceID,
		Action:      custody.ActionDeleted,
		PerformedBy: actor.Username,
		Notes:       "Evidence record tombstoned",
		TombstoneAt: &at,
	})
	return err
}

func (s *CustodyService) GetEvidence(ctx context.Context, actor Actor, evidenceID string) (custody.EvidenceItem, error) {
	if err := s.require(actor, custody.CapView); err != nil {
		return custody.EvidenceItem{}, err
	}
	return s.Evidence.Get(ctx, evidenceID)
}

func (s *CustodyService) ListEvidence(ctx context.Context, actor Actor) ([]custody.EvidenceItem, error) {
	if err := s.require(actor, custody.CapView); err != nil {
		return nil, err
	}
	return s.Evidence.ListAll(ctx)
}

// GetContent returns the item's stored content bytes.
func (s *CustodyService) GetContent(ctx context.Context, actor Actor, evidenceID string) ([]byte, error) {
	if err := s.require(actor, custody.CapView); err != nil {
		return nil, err
	}
	item, err := s.Evidence.Get(ctx, evidenceID)
	if err != nil {
		return nil, err
	}
	if item.ContentRef == "" {
		return nil, fmt.Errorf("evidence %s has no content: %w", evidenceID, custody.ErrNotFound)
	}
	if s.Content == nil {
		return nil, fmt.Errorf("content store unavailable: %w", custody.ErrStorage)
	}
	content, err := s.Content.Get(ctx, item.ContentRef)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", errors.Join(custody.ErrStorage, err))
	}
	return content, nil
}

// CustodyLog returns the item's chain of custody, newest first.
func (s *CustodyService) CustodyLog(ctx context.Context, actor Actor, evidenceID string) ([]custody.CustodyLogEntry, error) {
	if err := s.require(actor, custody.CapView); err != nil {
		return nil, err
	}
	if _, err := s.Evidence.Get(ctx, evidenceID); err != nil {
		return nil, err
	}
	return s.Ledger.ListFor(ctx, evidenceID)
}

// AllLogs returns every custody entry across all items.
func (s *CustodyService) AllLogs(ctx context.Context, actor Actor) ([]custody.CustodyLogEntry, error) {
	if err := s.require(actor, custody.CapViewAllLogs); err != nil {
		return nil, err
	}
	return s.Ledger.ListAll(ctx)
}

// AuditCustodyChain replays the item's ledger hash chain and reports the
// first break, if any.
func (s *CustodyService) AuditCustodyChain(ctx context.Context, actor Actor, evidenceID string) error {
	if err := s.require(actor, custody.CapView); err != nil {
		return err
	}
	if _, err := s.Evidence.Get(ctx, evidenceID); err != nil {
		return err
	}
	return VerifyCustodyChain(ctx, s.Ledger, evidenceID)
}
