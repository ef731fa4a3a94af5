// Package repotest implementa los puertos de repository en memoria para tests de casos de uso.
// Run de TxRunner restaura el estado previo si fn devuelve error.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
)

// Store estado en memoria compartido por todos los repositorios.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex // serializa las transacciones, como los locks de fila
	st   state
}

type state struct {
	users      map[string]entity.User
	customers  map[string]entity.Customer
	categories map[string]entity.Category
	products   map[string]entity.Product
	rates      []entity.ExchangeRate
	sales      map[string]entity.Sale
	quotes     map[string]entity.Quote
	payments   map[string]entity.Payment
	cheques    map[string]entity.Cheque
	ledger     []entity.CurrentAccountItem
	saleSeq    int64
	quoteSeq   int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: state{
		users:      map[string]entity.User{},
		customers:  map[string]entity.Customer{},
		categories: map[string]entity.Category{},
		products:   map[string]entity.Product{},
		sales:      map[string]entity.Sale{},
		quotes:     map[string]entity.Quote{},
		payments:   map[string]entity.Payment{},
		cheques:    map[string]entity.Cheque{},
	}}
}

func (st state) clone() state {
	out := st
	out.users = cloneMap(st.users)
	out.customers = cloneMap(st.customers)
	out.categories = cloneMap(st.categories)
	out.products = cloneMap(st.products)
	out.rates = append([]entity.ExchangeRate(nil), st.rates...)
	out.sales = cloneMap(st.sales)
	out.quotes = cloneMap(st.quotes)
	out.payments = cloneMap(st.payments)
	out.cheques = cloneMap(st.cheques)
	out.ledger = append([]entity.CurrentAccountItem(nil), st.ledger...)
	return out
}

func cloneMap[T any](m map[string]T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Repos devuelve los repositorios sobre el store.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Users:          &UserRepo{s},
		Customers:      &CustomerRepo{s},
		Categories:     &CategoryRepo{s},
		Products:       &ProductRepo{s},
		ExchangeRates:  &ExchangeRateRepo{s},
		Sales:          &SaleRepo{s},
		Quotes:         &QuoteRepo{s},
		Payments:       &PaymentRepo{s},
		Cheques:        &ChequeRepo{s},
		CurrentAccount: &CurrentAccountRepo{s},
	}
}

// Run ejecuta fn con los repos del store, una transacción a la vez; si fn falla se restaura el estado previo.
func (s *Store) Run(_ context.Context, fn func(r repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()
	if err := fn(s.Repos()); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

var _ repository.TxRunner = (*Store)(nil)

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ---------------------------------------------------------------------------
// Users

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.st.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return page(out, limit, offset), nil
}

// ---------------------------------------------------------------------------
// Customers

type CustomerRepo struct{ s *Store }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.customers {
		if c.DocNumber != "" && x.DocType == c.DocType && x.DocNumber == c.DocNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.st.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r *CustomerRepo) GetByDocument(_ context.Context, docType int, docNumber string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.st.customers {
		if c.DocType == docType && c.DocNumber == docNumber {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) List(_ context.Context, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(f.Search)
	var out []*entity.Customer
	for _, c := range r.s.st.customers {
		c := c
		if !f.IncludeInactive && !c.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) && !strings.Contains(c.DocNumber, search) {
			continue
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, x := range r.s.st.customers {
		if id != c.ID && c.DocNumber != "" && x.DocType == c.DocType && x.DocNumber == c.DocNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.st.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.customers[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.IsActive = false
	r.s.st.customers[id] = c
	return nil
}

// ---------------------------------------------------------------------------
// Categories

type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.categories {
		if strings.EqualFold(x.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.st.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) List(_ context.Context, includeInactive bool) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Category
	for _, c := range r.s.st.categories {
		c := c
		if includeInactive || c.IsActive {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.categories[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.IsActive = false
	r.s.st.categories[id] = c
	return nil
}

// ---------------------------------------------------------------------------
// Products

type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.products {
		if x.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.st.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.st.products {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(f.Search)
	var out []*entity.Product
	for _, p := range r.s.st.products {
		p := p
		if !f.IncludeInactive && !p.IsActive {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.Code), search) {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *ProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.st.products {
		p := p
		if p.IsActive && p.IsLowStock() {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	p.UpdatedAt = time.Now()
	r.s.st.products[id] = p
	return nil
}

func (r *ProductRepo) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsActive = false
	r.s.st.products[id] = p
	return nil
}

func (r *ProductRepo) AdjustStock(_ context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	next := p.Stock.Add(delta)
	if next.IsNegative() {
		return p.Stock, domain.ErrInsufficientStock
	}
	p.Stock = next
	r.s.st.products[id] = p
	return next, nil
}

// ---------------------------------------------------------------------------
// Exchange rates

type ExchangeRateRepo struct{ s *Store }

func (r *ExchangeRateRepo) Create(_ context.Context, rate *entity.ExchangeRate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.rates = append(r.s.st.rates, *rate)
	return nil
}

func (r *ExchangeRateRepo) Latest(_ context.Context, currency string) (*entity.ExchangeRate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *entity.ExchangeRate
	for i := range r.s.st.rates {
		x := r.s.st.rates[i]
		if x.Currency != currency {
			continue
		}
		if best == nil || x.Date.After(best.Date) || (x.Date.Equal(best.Date) && x.CreatedAt.After(best.CreatedAt)) {
			best = &x
		}
	}
	return best, nil
}

func (r *ExchangeRateRepo) List(_ context.Context, currency string, limit int) ([]*entity.ExchangeRate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ExchangeRate
	for i := range r.s.st.rates {
		x := r.s.st.rates[i]
		if currency == "" || x.Currency == currency {
			out = append(out, &x)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, limit, 0), nil
}

// ---------------------------------------------------------------------------
// Sales

type SaleRepo struct{ s *Store }

func cloneSale(s entity.Sale) *entity.Sale {
	items := make([]*entity.SaleItem, 0, len(s.Items))
	for _, it := range s.Items {
		c := *it
		items = append(items, &c)
	}
	s.Items = items
	return &s
}

func (r *SaleRepo) NextNumber(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.saleSeq++
	return r.s.st.saleSeq, nil
}

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.sales[s.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.sales[s.ID] = *cloneSale(*s)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.st.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(s), nil
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Sale
	for _, s := range r.s.st.sales {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.CustomerID != "" && s.CustomerID != f.CustomerID {
			continue
		}
		if f.From != nil && s.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !s.Date.Before(*f.To) {
			continue
		}
		c := s
		c.Items = nil
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *SaleRepo) Update(_ context.Context, s *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.st.sales[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *s
	next.Items = prev.Items
	r.s.st.sales[s.ID] = next
	return nil
}

// ---------------------------------------------------------------------------
// Quotes

type QuoteRepo struct{ s *Store }

func cloneQuote(q entity.Quote) *entity.Quote {
	items := make([]*entity.QuoteItem, 0, len(q.Items))
	for _, it := range q.Items {
		c := *it
		items = append(items, &c)
	}
	q.Items = items
	return &q
}

func (r *QuoteRepo) NextNumber(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.quoteSeq++
	return r.s.st.quoteSeq, nil
}

func (r *QuoteRepo) Create(_ context.Context, q *entity.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.quotes[q.ID] = *cloneQuote(*q)
	return nil
}

func (r *QuoteRepo) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.st.quotes[id]
	if !ok {
		return nil, nil
	}
	return cloneQuote(q), nil
}

func (r *QuoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quote, error) {
	return r.GetByID(ctx, id)
}

func (r *QuoteRepo) List(_ context.Context, f repository.QuoteFilter) ([]*entity.Quote, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Quote
	for _, q := range r.s.st.quotes {
		if f.Status != "" && q.Status != f.Status {
			continue
		}
		if f.CustomerID != "" && q.CustomerID != f.CustomerID {
			continue
		}
		c := q
		c.Items = nil
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *QuoteRepo) Update(_ context.Context, q *entity.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.st.quotes[q.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *q
	next.Items = prev.Items
	r.s.st.quotes[q.ID] = next
	return nil
}

// ---------------------------------------------------------------------------
// Payments

type PaymentRepo struct{ s *Store }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PaymentRepo) List(_ context.Context, f repository.PaymentFilter) ([]*entity.Payment, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.s.st.payments {
		p := p
		if f.CustomerID == "" || p.CustomerID == f.CustomerID {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *PaymentRepo) Update(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.payments[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.payments[p.ID] = *p
	return nil
}

// ---------------------------------------------------------------------------
// Cheques

type ChequeRepo struct{ s *Store }

func (r *ChequeRepo) Create(_ context.Context, c *entity.Cheque) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.cheques {
		if x.Bank == c.Bank && x.Number == c.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.st.cheques[c.ID] = *c
	return nil
}

func (r *ChequeRepo) GetByID(_ context.Context, id string) (*entity.Cheque, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.cheques[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ChequeRepo) GetForUpdate(ctx context.Context, id string) (*entity.Cheque, error) {
	return r.GetByID(ctx, id)
}

func (r *ChequeRepo) List(_ context.Context, f repository.ChequeFilter) ([]*entity.Cheque, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Cheque
	for _, c := range r.s.st.cheques {
		c := c
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.CustomerID != "" && c.CustomerID != f.CustomerID {
			continue
		}
		if f.DueBefore != nil && !c.DueDate.Before(*f.DueBefore) {
			continue
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *ChequeRepo) Update(_ context.Context, c *entity.Cheque) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.cheques[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.cheques[c.ID] = *c
	return nil
}

// ---------------------------------------------------------------------------
// Current account

type CurrentAccountRepo struct{ s *Store }

func (r *CurrentAccountRepo) LastBalance(_ context.Context, customerID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	balance := decimal.Zero
	for _, it := range r.s.st.ledger {
		if it.CustomerID == customerID {
			balance = it.Balance
		}
	}
	return balance, nil
}

func (r *CurrentAccountRepo) Append(_ context.Context, item *entity.CurrentAccountItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.ledger = append(r.s.st.ledger, *item)
	return nil
}

func (r *CurrentAccountRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.CurrentAccountItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CurrentAccountItem
	for _, it := range r.s.st.ledger {
		it := it
		if it.CustomerID == customerID {
			out = append(out, &it)
		}
	}
	return out, nil
}

func (r *CurrentAccountRepo) Balances(_ context.Context) ([]*entity.CustomerBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	last := map[string]entity.CurrentAccountItem{}
	for _, it := range r.s.st.ledger {
		last[it.CustomerID] = it
	}
	var out []*entity.CustomerBalance
	for id, it := range last {
		if it.Balance.IsZero() {
			continue
		}
		out = append(out, &entity.CustomerBalance{
			CustomerID:   id,
			CustomerName: r.s.st.customers[id].Name,
			Balance:      it.Balance,
			LastMovement: it.Date,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Balance.GreaterThan(out[j].Balance) })
	return out, nil
}

var (
	_ repository.UserRepository           = (*UserRepo)(nil)
	_ repository.CustomerRepository       = (*CustomerRepo)(nil)
	_ repository.CategoryRepository       = (*CategoryRepo)(nil)
	_ repository.ProductRepository        = (*ProductRepo)(nil)
	_ repository.ExchangeRateRepository   = (*ExchangeRateRepo)(nil)
	_ repository.SaleRepository           = (*SaleRepo)(nil)
	_ repository.QuoteRepository          = (*QuoteRepo)(nil)
	_ repository.PaymentRepository        = (*PaymentRepo)(nil)
	_ repository.ChequeRepository         = (*ChequeRepo)(nil)
	_ repository.CurrentAccountRepository = (*CurrentAccountRepo)(nil)
)
