package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type EvidenceResponse struct {
	ID               string `json:"id"`
	CaseNumber       string `json:"case_number"`
	Description      string `json:"description"`
	EvidenceType     string `json:"evidence_type"`
	OriginalHash     string `json:"original_hash"`
	CurrentHash      string `json:"current_hash"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
	CreatedBy        string `json:"created_by"`
	CurrentCustodian string `json:"current_custodian"`
	HasContent       bool   `json:"has_content"`
}

type LogEntryResponse struct {
	ID            string `json:"id"`
	EvidenceID    string `json:"evidence_id"`
	Seq           int64  `json:"seq"`
	Action        string `json:"action"`
	PerformedBy   string `json:"performed_by"`
	TransferredTo string `json:"transferred_to,omitempty"`
	Timestamp     string `json:"timestamp"`
	HashVerified  string `json:"hash_verified"`
	Notes         string `json:"notes,omitempty"`
	PrevEntryHash string `json:"prev_entry_hash"`
	EntryHash     string `json:"entry_hash"`
}

func toEvidenceResponse(item custody.EvidenceItem) EvidenceResponse {
	return EvidenceResponse{
		ID:               item.ID,
		CaseNumber:       item.CaseNumber,
		Description:      item.Description,
		EvidenceType:     item.EvidenceType,
		OriginalHash:     item.OriginalHash,
		CurrentHash:      item.CurrentHash,
		Status:           string(item.Status),
		CreatedAt:        item.CreatedAt.UTC().Format(time.RFC3339Nano),
		CreatedBy:        item.CreatedBy,
		CurrentCustodian: item.CurrentCustodian,
		HasContent:       item.ContentRef != "",
	}
}

func toLogEntryResponse(entry custody.CustodyLogEntry) LogEntryResponse {
	return LogEntryResponse{
		ID:            entry.ID,
		EvidenceID:    entry.EvidenceID,
		Seq:           entry.Seq,
		Action:        string(entry.Action),
		PerformedBy:   entry.PerformedBy,
		TransferredTo: entry.TransferredTo,
		Timestamp:     entry.Timestamp.UTC().Format(time.RFC3339Nano),
		HashVerified:  string(entry.HashVerified),
		Notes:         entry.Notes,
		PrevEntryHash: entry.PrevEntryHash,
		EntryHash:     entry.EntryHash,
	}
}

func toLogEntryResponses(entries []custody.CustodyLogEntry) []LogEntryResponse {
	out := make([]LogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toLogEntryResponse(entry))
	}
	return out
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, custody.ErrUnauthorized):
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	case errors.Is(err, custody.ErrPermissionDenied):
		writeErrorCode(c, http.StatusForbidden, "PERMISSION_DENIED", "permission denied")
	case errors.Is(err, custody.ErrNotFound):
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, custody.ErrSealed):
		writeErrorCode(c, http.StatusConflict, "SEALED", "evidence is sealed")
	case errors.Is(err, custody.ErrInvalidArgument):
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid argument")
	default:
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

// writeKnown maps the access-layer errors and reports whether it wrote a
// response, leaving domain-specific failures to the caller.
func writeKnown(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, custody.ErrUnauthorized),
		errors.Is(err, custody.ErrPermissionDenied),
		errors.Is(err, custody.ErrNotFound),
		errors.Is(err, custody.ErrStorage):
		writeError(c, err)
		return true
	}
	return false
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message})
}
