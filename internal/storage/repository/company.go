package repository

import (
	"context"
	"fmt"

	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// GetCompanyInfo возвращает сведения о компании, создавая строку
// со значениями по умолчанию при первом обращении.
func (s *Storage) GetCompanyInfo(ctx context.Context) (*models.CompanyInfo, error) {
	const op = "storage.GetCompanyInfo"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO company_info (id) VALUES (1)
			  ON CONFLICT (id) DO UPDATE SET id = company_info.id
			  RETURNING company_name, address, phone, email, business_hours,
			      established, capital, representative, business_content, updated_at`
	info := &models.CompanyInfo{}
	err := s.DB.QueryRowContext(ctx, query).Scan(
		&info.CompanyName, &info.Address, &info.Phone, &info.Email, &info.BusinessHours,
		&info.Established, &info.Capital, &info.Representative, &info.BusinessContent,
		&info.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return info, nil
}

// UpdateCompanyInfo обновляет сведения о компании.
func (s *Storage) UpdateCompanyInfo(ctx context.Context, req models.CompanyInfoRequest) error {
	const op = "storage.UpdateCompanyInfo"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO company_info (id, company_name, address, phone, email, business_hours,
			      established, capital, representative, business_content)
			  VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
			  ON CONFLICT (id) DO UPDATE
			  SET company_name = EXCLUDED.company_name,
			      address = EXCLUDED.address,
			      phone = EXCLUDED.phone,
			      email = EXCLUDED.email,
			      business_hours = EXCLUDED.business_hours,
			      established = EXCLUDED.established,
			      capital = EXCLUDED.capital,
			      representative = EXCLUDED.representative,
			      business_content = EXCLUDED.business_content,
			      updated_at = now()`
	if _, err := s.DB.ExecContext(ctx, query,
		req.CompanyName, req.Address, req.Phone, req.Email, req.BusinessHours,
		req.Established, req.Capital, req.Representative, req.BusinessContent); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
