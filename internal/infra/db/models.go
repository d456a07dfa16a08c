package db

import "time"

type UserModel struct {
	Username     string `gorm:"primaryKey"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"index;not null"`
}

func (UserModel) TableName() string { return "users" }

type EvidenceModel struct {
	ID               string    `gorm:"type:uuid;primaryKey"`
	CaseNumber       string    `gorm:"index;not null"`
	Description      string    `gorm:"not null"`
	EvidenceType     string    `gorm:"not null"`
	OriginalHash     string    `gorm:"not null"`
	CurrentHash      string    `gorm:"not null"`
	Status           string    `gorm:"index;not null"`
	CreatedAt        time.Time `gorm:"index;not null"`
	CreatedBy        string    `gorm:"not null"`
	CurrentCustodian string    `gorm:"not null"`
	ContentRef       *string
	DeletedAt        *time.Time `gorm:"index"`
}

func (EvidenceModel) TableName() string { return "evidence" }

type CustodyLogModel struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	EvidenceID    string `gorm:"type:uuid;index:idx_custody_log_evidence_seq,unique;not null"`
	Seq           int64  `gorm:"index:idx_custody_log_evidence_seq,unique;not null"`
	Action        string `gorm:"not null"`
	PerformedBy   string `gorm:"not null"`
	TransferredTo *string
	Timestamp     time.Time `gorm:"index;not null"`
	HashVerified  string    `gorm:"not null"`
	Notes         *string
	PrevEntryHash string `gorm:"not null"`
	EntryHash     string `gorm:"not null"`
}

func (CustodyLogModel) TableName() string { return "custody_log" }

type EvidenceLogSeqModel struct {
	EvidenceID string `gorm:"type:uuid;primaryKey"`
	Seq        int64  `gorm:"not null"`
}

func (EvidenceLogSeqModel) TableName() string { return "evidence_log_seq" }
