package persistence

import (
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// loadApprovalHistory reads the approval trail of one document ordered by time
func loadApprovalHistory(db *gorm.DB, documentID uuid.UUID, documentType string) ([]models.ApprovalRecordModel, error) {
	var records []models.ApprovalRecordModel
	if err := db.
		Where("document_id = ? AND document_type = ?", documentID, documentType).
		Order("timestamp ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// saveApprovalHistory appends new approval records. Existing rows are never
// modified; the trail only grows.
func saveApprovalHistory(db *gorm.DB, records []models.ApprovalRecordModel) error {
	for i := range records {
		if err := db.Where("id = ?", records[i].ID).
			FirstOrCreate(&records[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
