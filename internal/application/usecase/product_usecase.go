package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/inventory"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
)

// ProductUseCase casos de uso CRUD para productos. El stock se modifica por ventas o por ajuste manual.
type ProductUseCase struct {
	tx         repository.TxRunner
	repo       repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx repository.TxRunner, repo repository.ProductRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{tx: tx, repo: repo, categories: categories}
}

// Create crea un nuevo producto. Devuelve ErrDuplicate si el código ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: código %s", domain.ErrDuplicate, code)
	}
	if !afip.IsValidTaxCategory(in.TaxCategory) {
		return nil, fmt.Errorf("%w: categoría de IVA %q", domain.ErrInvalidInput, in.TaxCategory)
	}
	currency := in.Currency
	if currency == "" {
		currency = entity.CurrencyARS
	}
	if err := validateProductNumbers(in.Price, in.Cost, in.Stock, in.MinStock); err != nil {
		return nil, err
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Price:       in.Price,
		Currency:    currency,
		Cost:        in.Cost,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		TaxCategory: in.TaxCategory,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// Update actualiza un producto. No modifica el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = *in.CategoryID
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Currency != nil {
		p.Currency = *in.Currency
	}
	if in.Cost != nil {
		p.Cost = *in.Cost
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.TaxCategory != nil {
		if !afip.IsValidTaxCategory(*in.TaxCategory) {
			return nil, fmt.Errorf("%w: categoría de IVA %q", domain.ErrInvalidInput, *in.TaxCategory)
		}
		p.TaxCategory = *in.TaxCategory
	}
	if err := validateProductNumbers(p.Price, p.Cost, p.Stock, p.MinStock); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:          strings.TrimSpace(in.Search),
		CategoryID:      in.CategoryID,
		IncludeInactive: in.IncludeInactive,
		Limit:           in.Limit,
		Offset:          in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: toProductResponses(list),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// LowStock lista productos activos con stock en o por debajo del mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// AdjustStock ajuste manual de stock. El stock resultante no puede ser negativo.
// Una entrada con costo unitario recalcula el costo promedio ponderado.
// Lectura, ajuste y costo van en una transacción con la fila bloqueada.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, id string, in dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	if in.Delta.IsZero() {
		return nil, fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrInvalidInput)
	}
	var p *entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		p, err = r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		previous := p.Stock
		if p.Stock, err = r.Products.AdjustStock(ctx, id, in.Delta); err != nil {
			return err
		}
		if in.UnitCost == nil || !in.Delta.IsPositive() {
			return nil
		}
		p.Cost = inventory.WeightedAverageCost(previous, p.Cost, in.Delta, *in.UnitCost)
		p.UpdatedAt = time.Now()
		return r.Products.UpdateCost(ctx, id, p.Cost)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Delete baja lógica.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(ctx, id)
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	c, err := uc.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil || !c.IsActive {
		return fmt.Errorf("%w: categoría inexistente", domain.ErrInvalidInput)
	}
	return nil
}

func validateProductNumbers(values ...decimal.Decimal) error {
	for _, v := range values {
		if v.IsNegative() {
			return fmt.Errorf("%w: precio, costo y stock no pueden ser negativos", domain.ErrInvalidInput)
		}
	}
	return nil
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Price:       p.Price,
		Currency:    p.Currency,
		Cost:        p.Cost,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		LowStock:    p.IsLowStock(),
		TaxCategory: p.TaxCategory,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
