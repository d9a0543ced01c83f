package repository

import (
	"context"

	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. Los Get devuelven (nil, nil) si no existe.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByTIN(ctx context.Context, tin string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
	ActivateModule(ctx context.Context, m *entity.CompanyModule) error
	ListModules(ctx context.Context, companyID string) ([]*entity.CompanyModule, error)
}
