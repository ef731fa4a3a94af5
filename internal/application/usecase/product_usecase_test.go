package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
	"github.com/jhoicas/gestion-comercial-api/internal/repotest"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newProductUC() *ProductUseCase {
	store := repotest.NewStore()
	r := store.Repos()
	return NewProductUseCase(store, r.Products, r.Categories)
}

// failingCostTx corre sobre el store pero UpdateCost siempre falla.
type failingCostTx struct{ store *repotest.Store }

type failingCostProducts struct{ repository.ProductRepository }

func (failingCostProducts) UpdateCost(context.Context, string, decimal.Decimal) error {
	return errors.New("conexión perdida")
}

func (f failingCostTx) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	return f.store.Run(ctx, func(r repository.Repos) error {
		r.Products = failingCostProducts{r.Products}
		return fn(r)
	})
}

func createProduct(t *testing.T, uc *ProductUseCase, code string) *dto.ProductResponse {
	t.Helper()
	p, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Code:        code,
		Name:        "Producto " + code,
		Price:       dec("1000"),
		Cost:        dec("100"),
		Stock:       dec("10"),
		MinStock:    dec("2"),
		TaxCategory: afip.TaxIVA21,
	})
	require.NoError(t, err)
	return p
}

func TestProductCreate(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()

	p := createProduct(t, uc, "A-1")
	assert.Equal(t, "ARS", p.Currency)
	assert.True(t, p.IsActive)

	_, err := uc.Create(ctx, dto.CreateProductRequest{Code: "A-1", Name: "Otro", TaxCategory: afip.TaxIVA21})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "A-2", Name: "Otro", TaxCategory: "iva_19"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestProductAdjustStock_CostoPromedio(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	p := createProduct(t, uc, "B-1")

	cost := dec("200")
	out, err := uc.AdjustStock(ctx, p.ID, dto.AdjustStockRequest{Delta: dec("10"), UnitCost: &cost})
	require.NoError(t, err)
	assert.True(t, dec("20").Equal(out.Stock))
	assert.True(t, dec("150").Equal(out.Cost), "costo: %s", out.Cost)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, dec("20").Equal(got.Stock))
	assert.True(t, dec("150").Equal(got.Cost))
}

func TestProductAdjustStock_SalidaNoCambiaCosto(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	p := createProduct(t, uc, "C-1")

	cost := dec("999")
	out, err := uc.AdjustStock(ctx, p.ID, dto.AdjustStockRequest{Delta: dec("-4"), UnitCost: &cost})
	require.NoError(t, err)
	assert.True(t, dec("6").Equal(out.Stock))
	assert.True(t, dec("100").Equal(out.Cost))
}

func TestProductAdjustStock_Errores(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	p := createProduct(t, uc, "D-1")

	_, err := uc.AdjustStock(ctx, p.ID, dto.AdjustStockRequest{Delta: decimal.Zero})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.AdjustStock(ctx, p.ID, dto.AdjustStockRequest{Delta: dec("-11")})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	_, err = uc.AdjustStock(ctx, "no-existe", dto.AdjustStockRequest{Delta: dec("1")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProductAdjustStock_FallaCostoRevierteStock(t *testing.T) {
	store := repotest.NewStore()
	r := store.Repos()
	uc := NewProductUseCase(failingCostTx{store}, r.Products, r.Categories)
	ctx := context.Background()
	p := createProduct(t, uc, "F-1")

	cost := dec("200")
	_, err := uc.AdjustStock(ctx, p.ID, dto.AdjustStockRequest{Delta: dec("5"), UnitCost: &cost})
	require.Error(t, err)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(got.Stock), "stock: %s", got.Stock)
	assert.True(t, dec("100").Equal(got.Cost))
}

func TestProductAdjustStock_NoPisaOtrosCampos(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	p := createProduct(t, uc, "G-1")

	price := dec("1500")
	_, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)

	cost := dec("130")
	out, err := uc.AdjustStock(ctx, p.ID, dto.AdjustStockRequest{Delta: dec("10"), UnitCost: &cost})
	require.NoError(t, err)
	assert.True(t, dec("115").Equal(out.Cost), "costo: %s", out.Cost)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, dec("1500").Equal(got.Price))
	assert.True(t, dec("115").Equal(got.Cost))
}

func TestProductLowStock(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	p := createProduct(t, uc, "E-1")

	list, err := uc.LowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = uc.AdjustStock(ctx, p.ID, dto.AdjustStockRequest{Delta: dec("-8")})
	require.NoError(t, err)
	list, err = uc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].LowStock)
}
