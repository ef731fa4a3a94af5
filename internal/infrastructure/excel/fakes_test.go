package excel_test

import (
	"context"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
)

// fakeCustomerRepo solo responde GetByID; el resto no se usa en la exportación.
type fakeCustomerRepo struct {
	repository.CustomerRepository
	names map[string]string
}

func (f fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	name, ok := f.names[id]
	if !ok {
		return nil, nil
	}
	return &entity.Customer{ID: id, Name: name}, nil
}
