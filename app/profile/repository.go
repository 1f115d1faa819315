package profile

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joefazee/globeguide/app/database"
	"github.com/joefazee/globeguide/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository creates a profile repository over the users table.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, database.TranslateError(err, nil)
	}
	return &user, nil
}

func (r *repository) Update(ctx context.Context, userID uuid.UUID, changes map[string]interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", userID).First(&user).Error
	})
	if err != nil {
		return nil, database.TranslateError(err, nil)
	}
	return &user, nil
}
