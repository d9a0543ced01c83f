package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/myinvois-erp/internal/application/dto"
	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
	"github.com/jhoicas/myinvois-erp/pkg/lhdn"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create crea una nueva empresa. Normaliza y valida el TIN; devuelve
// domain.ErrDuplicate si el TIN ya está registrado.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	tin := lhdn.NormalizeTIN(in.TIN)
	if err := lhdn.ValidateTIN(tin); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if lhdn.IsGenericTIN(tin) {
		return nil, fmt.Errorf("%w: una empresa emisora no puede usar un TIN genérico", domain.ErrInvalidInput)
	}
	existing, _ := uc.repo.GetByTIN(ctx, tin)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	sst := strings.TrimSpace(in.SSTNumber)
	if sst == "" {
		sst = "NA"
	}
	now := time.Now()
	company := &entity.Company{
		ID:               uuid.New().String(),
		Name:             strings.TrimSpace(in.Name),
		TIN:              tin,
		BRN:              strings.TrimSpace(in.BRN),
		SSTNumber:        sst,
		MSICCode:         in.MSICCode,
		BusinessActivity: in.BusinessActivity,
		Address:          in.Address,
		City:             in.City,
		State:            in.State,
		Postcode:         in.Postcode,
		Phone:            in.Phone,
		Email:            in.Email,
		Status:           "active",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	return entityToCompanyResponse(company), nil
}

// Update aplica los campos presentes del request.
func (uc *CompanyUseCase) Update(ctx context.Context, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		company.Name = strings.TrimSpace(*in.Name)
	}
	if in.SSTNumber != nil {
		company.SSTNumber = *in.SSTNumber
	}
	if in.MSICCode != nil {
		company.MSICCode = *in.MSICCode
	}
	if in.Address != nil {
		company.Address = *in.Address
	}
	if in.Phone != nil {
		company.Phone = *in.Phone
	}
	if in.Email != nil {
		company.Email = *in.Email
	}
	if in.Status != nil {
		company.Status = *in.Status
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, limit, offset int) (*dto.CompanyListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:               c.ID,
		Name:             c.Name,
		TIN:              c.TIN,
		BRN:              c.BRN,
		SSTNumber:        c.SSTNumber,
		MSICCode:         c.MSICCode,
		BusinessActivity: c.BusinessActivity,
		Address:          c.Address,
		City:             c.City,
		State:            c.State,
		Postcode:         c.Postcode,
		Phone:            c.Phone,
		Email:            c.Email,
		Status:           c.Status,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
