package custody

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

type EvidenceStatus string

const (
	StatusActive      EvidenceStatus = "Active"
	StatusSealed      EvidenceStatus = "Sealed"
	StatusCompromised EvidenceStatus = "Compromised"
)

type EvidenceItem struct {
	ID               string
	CaseNumber       string
	Description      string
	EvidenceType     string
	OriginalHash     string
	CurrentHash      string
	Status           EvidenceStatus
	CreatedAt        time.Time
	CreatedBy        string
	CurrentCustodian string
	ContentRef       string
	DeletedAt        *time.Time
}

// HashContent fingerprints evidence content bytes.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// MetadataHash is the fallback baseline for items created without content
// bytes. It fingerprints metadata plus the creation timestamp, which is a
// weaker guarantee than a content hash: it proves the record fields were not
// rewritten, not that any underlying object is intact.
func MetadataHash(caseNumber, description, evidenceType string, createdAt time.Time) string {
	data := fmt.Sprintf("%s|%s|%s|%s", caseNumber, description, evidenceType, createdAt.UTC().Format(time.RFC3339Nano))
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
