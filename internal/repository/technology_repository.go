package repository

import (
	"errors"

	"skillcheck_backend/internal/model"
	"skillcheck_backend/internal/util"

	"gorm.io/gorm"
)

type TechnologyRepository struct {
	DB *gorm.DB
}

func NewTechnologyRepository(db *gorm.DB) *TechnologyRepository {
	return &TechnologyRepository{DB: db}
}

func (r *TechnologyRepository) FindByID(id uint) (*model.Technology, error) {
	var t model.Technology
	err := r.DB.First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTechnologyNotFound
	}
	return &t, err
}

func (r *TechnologyRepository) List(enabledOnly bool) ([]model.Technology, error) {
	var ts []model.Technology
	query := r.DB.Order("name asc")
	if enabledOnly {
		query = query.Where("enabled = ?", true)
	}
	err := query.Find(&ts).Error
	return ts, err
}

func (r *TechnologyRepository) Create(t *model.Technology) error {
	return r.DB.Create(t).Error
}
