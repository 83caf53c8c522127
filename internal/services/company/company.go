// Package services содержит бизнес-логику сведений об операторе сервиса.
package services

import (
	"context"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// CompanyRepository определяет методы для работы со сведениями о компании.
type CompanyRepository interface {
	// GetCompanyInfo возвращает единственную запись, создавая её при первом чтении.
	GetCompanyInfo(ctx context.Context) (*models.CompanyInfo, error)
	UpdateCompanyInfo(ctx context.Context, req models.CompanyInfoRequest) error
}

// CompanyService отдаёт и обновляет сведения о компании.
type CompanyService struct {
	repo CompanyRepository
}

// NewCompanyService создает новый экземпляр CompanyService.
func NewCompanyService(repo CompanyRepository) *CompanyService {
	return &CompanyService{repo: repo}
}

// Read возвращает сведения о компании.
func (s *CompanyService) Read(ctx context.Context) (*models.CompanyInfo, error) {
	return s.repo.GetCompanyInfo(ctx)
}

// Update перезаписывает сведения о компании.
func (s *CompanyService) Update(ctx context.Context, req models.CompanyInfoRequest) error {
	return s.repo.UpdateCompanyInfo(ctx, req)
}
