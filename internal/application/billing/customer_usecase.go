package billing

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

// CustomerUseCase casos de uso para clientes (compradores).
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente. El TIN se normaliza y se valida contra el formato LHDN.
func (uc *CustomerUseCase) Create(ctx context.Context, companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := lhdn.ValidateTIN(in.TIN); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	switch in.IDScheme {
	case lhdn.IDSchemeNRIC, lhdn.IDSchemePassport, lhdn.IDSchemeBRN, lhdn.IDSchemeArmy:
	default:
		return nil, fmt.Errorf("%w: id_scheme %q", domain.ErrInvalidInput, in.IDScheme)
	}
	tin := lhdn.NormalizeTIN(in.TIN)
	// Los TIN genéricos se comparten entre compradores; no se deduplican.
	if !lhdn.IsGenericTIN(tin) {
		existing, err := uc.repo.GetByCompanyAndTIN(ctx, companyID, tin)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	country := strings.ToUpper(in.Country)
	if country == "" {
		country = lhdn.CountryMalaysia
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      strings.TrimSpace(in.Name),
		TIN:       tin,
		IDScheme:  in.IDScheme,
		IDValue:   in.IDValue,
		SSTNumber: in.SSTNumber,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		City:      in.City,
		State:     in.State,
		Postcode:  in.Postcode,
		Country:   country,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes de la empresa.
func (uc *CustomerUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// Get obtiene un cliente de la empresa.
func (uc *CustomerUseCase) Get(ctx context.Context, companyID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toCustomerResponse(c), nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		TIN:       c.TIN,
		IDScheme:  c.IDScheme,
		IDValue:   c.IDValue,
		SSTNumber: c.SSTNumber,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		City:      c.City,
		State:     c.State,
		Postcode:  c.Postcode,
		Country:   c.Country,
	}
}
