package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
)

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente. Devuelve ErrDuplicate si el documento ya existe.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	docNumber, err := validateCustomer(in)
	if err != nil {
		return nil, err
	}
	if err := uc.checkDuplicate(ctx, in.DocType, docNumber, ""); err != nil {
		return nil, err
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(in.Name),
		DocType:         in.DocType,
		DocNumber:       docNumber,
		IVACondition:    in.IVACondition,
		Email:           in.Email,
		Phone:           in.Phone,
		Address:         in.Address,
		CreditLimit:     in.CreditLimit,
		PaymentTermDays: in.PaymentTermDays,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente; ErrNotFound si no existe.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(c), nil
}

// List lista clientes con búsqueda por nombre o documento.
func (uc *CustomerUseCase) List(ctx context.Context, in dto.CustomerListRequest) (*dto.CustomerListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.CustomerFilter{
		Search:          strings.TrimSpace(in.Search),
		IncludeInactive: in.IncludeInactive,
		Limit:           in.Limit,
		Offset:          in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Update reemplaza los datos del cliente.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	docNumber, err := validateCustomer(in)
	if err != nil {
		return nil, err
	}
	if err := uc.checkDuplicate(ctx, in.DocType, docNumber, id); err != nil {
		return nil, err
	}
	c.Name = strings.TrimSpace(in.Name)
	c.DocType = in.DocType
	c.DocNumber = docNumber
	c.IVACondition = in.IVACondition
	c.Email = in.Email
	c.Phone = in.Phone
	c.Address = in.Address
	c.CreditLimit = in.CreditLimit
	c.PaymentTermDays = in.PaymentTermDays
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete baja lógica (is_active = false).
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(ctx, id)
}

func (uc *CustomerUseCase) checkDuplicate(ctx context.Context, docType int, docNumber, selfID string) error {
	if docType == afip.DocTypeSinIdentificar || docNumber == "" {
		return nil
	}
	existing, err := uc.repo.GetByDocument(ctx, docType, docNumber)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: ya existe un cliente con documento %s", domain.ErrDuplicate, docNumber)
	}
	return nil
}

// validateCustomer aplica las reglas fiscales del cliente y devuelve el documento normalizado.
func validateCustomer(in dto.CustomerRequest) (string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if !afip.IsValidDocType(in.DocType) {
		return "", fmt.Errorf("%w: tipo de documento %d", domain.ErrInvalidInput, in.DocType)
	}
	if !afip.IsValidIVACondition(in.IVACondition) {
		return "", fmt.Errorf("%w: condición frente al IVA %q", domain.ErrInvalidInput, in.IVACondition)
	}
	if in.CreditLimit.IsNegative() {
		return "", fmt.Errorf("%w: el límite de crédito no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.IVACondition == afip.IVAResponsableInscripto && in.DocType != afip.DocTypeCUIT {
		return "", fmt.Errorf("%w: un responsable inscripto debe identificarse con CUIT", domain.ErrInvalidInput)
	}

	docNumber := afip.NormalizeCUIT(in.DocNumber)
	switch in.DocType {
	case afip.DocTypeCUIT, afip.DocTypeCUIL:
		if err := afip.ValidateCUIT(docNumber); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidCUIT, err)
		}
	case afip.DocTypeDNI:
		if len(docNumber) < 7 || len(docNumber) > 8 {
			return "", fmt.Errorf("%w: el DNI debe tener 7 u 8 dígitos", domain.ErrInvalidInput)
		}
	case afip.DocTypeSinIdentificar:
		docNumber = ""
	}
	return docNumber, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:              c.ID,
		Name:            c.Name,
		DocType:         c.DocType,
		DocNumber:       c.DocNumber,
		IVACondition:    c.IVACondition,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		CreditLimit:     c.CreditLimit,
		PaymentTermDays: c.PaymentTermDays,
		IsActive:        c.IsActive,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
