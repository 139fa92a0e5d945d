package service

import (
	"skillcheck_backend/internal/model"
	"skillcheck_backend/internal/repository"
)

type TechnologyService struct {
	Repo *repository.TechnologyRepository
}

func NewTechnologyService(repo *repository.TechnologyRepository) *TechnologyService {
	return &TechnologyService{Repo: repo}
}

type TechnologyRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *TechnologyService) Create(req TechnologyRequest) (*model.Technology, error) {
	tech := &model.Technology{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Enabled:     true,
	}
	if err := s.Repo.Create(tech); err != nil {
		return nil, err
	}
	return tech, nil
}

func (s *TechnologyService) List(enabledOnly bool) ([]model.Technology, error) {
	return s.Repo.List(enabledOnly)
}

func (s *TechnologyService) Get(id uint) (*model.Technology, error) {
	return s.Repo.FindByID(id)
}
