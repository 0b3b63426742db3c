package repository

import (
	"gorm.io/gorm"

	"github.com/tokutei/learning-api/models"
)

type ProfileRepository interface {
	BaseRepository[models.Profile]
	GetByEmail(email string) (*models.Profile, error)
}

type ProfileRepositoryImpl struct {
	*BaseRepositoryImpl[models.Profile]
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{
		BaseRepositoryImpl: NewBaseRepository[models.Profile](db),
	}
}

func (r *ProfileRepositoryImpl) GetByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
