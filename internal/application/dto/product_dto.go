package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Precio sin IVA.
type CreateProductRequest struct {
	Code        string          `json:"code" validate:"required,min=1,max=50"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id" validate:"omitempty,uuid"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Currency    string          `json:"currency" validate:"omitempty,oneof=ARS USD"`
	Cost        decimal.Decimal `json:"cost" validate:"gte=0"`
	Stock       decimal.Decimal `json:"stock" validate:"gte=0"`
	MinStock    decimal.Decimal `json:"min_stock" validate:"gte=0"`
	TaxCategory string          `json:"tax_category" validate:"required"`
}

// UpdateProductRequest entrada para actualizar un producto (el stock se ajusta aparte).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Currency    *string          `json:"currency" validate:"omitempty,oneof=ARS USD"`
	Cost        *decimal.Decimal `json:"cost" validate:"omitempty,gte=0"`
	MinStock    *decimal.Decimal `json:"min_stock" validate:"omitempty,gte=0"`
	TaxCategory *string          `json:"tax_category"`
}

// AdjustStockRequest body de PATCH /api/products/:id/stock. Delta puede ser negativo.
type AdjustStockRequest struct {
	Delta    decimal.Decimal  `json:"delta"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty" validate:"omitempty,gte=0"` // costo de la entrada; recalcula el costo promedio
	Reason   string           `json:"reason" validate:"omitempty,max=200"`
}

// ProductListRequest query de GET /api/products.
type ProductListRequest struct {
	PageRequest
	Search          string `query:"search"`
	CategoryID      string `query:"category_id" validate:"omitempty,uuid"`
	IncludeInactive bool   `query:"include_inactive"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
	LowStock    bool            `json:"low_stock"`
	TaxCategory string          `json:"tax_category"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
