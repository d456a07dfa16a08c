package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
)

type EvidenceRepository struct {
	db *gorm.DB
}

func NewEvidenceRepository(db *gorm.DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

func (r *EvidenceRepository) Create(ctx context.Context, item custody.EvidenceItem) (custody.EvidenceItem, error) {
	if r == nil || r.db == nil {
		return custody.EvidenceItem{}, errDBUnavailable
	}
	model := evidenceModelFromDomain(item)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return custody.EvidenceItem{}, wrapStorage(err, "create evidence")
	}
	return item, nil
}

func (r *EvidenceRepository) Get(ctx context.Context, id string) (custody.EvidenceItem, error) {
	if r == nil || r.db == nil {
		return custody.EvidenceItem{}, errDBUnavailable
	}
	var model EvidenceModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		Take(&model).Error
	if err != nil {
		return custody.EvidenceItem{}, wrapStorage(err, "get evidence")
	}
	return evidenceFromModel(model), nil
}

func (r *EvidenceRepository) ListAll(ctx context.Context) ([]custody.EvidenceItem, error) {
	if r == nil || r.db == nil {
		return nil, errDBUnavailable
	}
	var models []EvidenceModel
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, wrapStorage(err, "list evidence")
	}
	out := make([]custody.EvidenceItem, 0, len(models))
	for _, model := range models {
		out = append(out, evidenceFromModel(model))
	}
	return out, nil
}

func evidenceModelFromDomain(item custody.EvidenceItem) EvidenceModel {
	return EvidenceModel{
		ID:               item.ID,
		CaseNumber:       item.CaseNumber,
		Description:      item.Description,
		EvidenceType:     item.EvidenceType,
		OriginalHash:     item.OriginalHash,
		CurrentHash:      item.CurrentHash,
		Status:           string(item.Status),
		CreatedAt:        item.CreatedAt.UTC(),
		CreatedBy:        item.CreatedBy,
		CurrentCustodian: item.CurrentCustodian,
		ContentRef:       stringPtrIfNotEmpty(item.ContentRef),
		DeletedAt:        item.DeletedAt,
	}
}

func evidenceFromModel(model EvidenceModel) custody.EvidenceItem {
	return custody.EvidenceItem{
		ID:               model.ID,
		CaseNumber:       model.CaseNumber,
		Description:      model.Description,
		EvidenceType:     model.EvidenceType,
		OriginalHash:     model.OriginalHash,
		CurrentHash:      model.CurrentHash,
		Status:           custody.EvidenceStatus(model.Status),
		CreatedAt:        model.CreatedAt.UTC(),
		CreatedBy:        model.CreatedBy,
		CurrentCustodian: model.CurrentCustodian,
		ContentRef:       stringValue(model.ContentRef),
		DeletedAt:        model.DeletedAt,
	}
}
