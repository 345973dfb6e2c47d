package persistence

import (
	"github.com/estate/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// lockedSave writes an aggregate row guarded by the version it carried when
// it was read, not the version it carries now. One unit of work may move an
// aggregate through several state changes before a single save; only an
// interleaved write from elsewhere counts as a conflict. Rows never stored
// before are created. On success the stored version advances so a later save
// in the same unit of work still matches.
func lockedSave(db *gorm.DB, table any, agg shared.AggregateRoot, model any, omit ...string) error {
	stored := agg.StoredVersion()
	if stored == 0 {
		if err := db.Omit(omit...).Create(model).Error; err != nil {
			return err
		}
		agg.MarkStored(agg.GetVersion())
		return nil
	}

	result := db.Model(table).
		Where("id = ? AND version = ?", agg.GetID(), stored).
		Select("*").
		Omit(omit...).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	agg.MarkStored(agg.GetVersion())
	return nil
}
