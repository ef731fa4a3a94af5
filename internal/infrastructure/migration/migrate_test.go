package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPGXURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/gc?sslmode=disable", PGXURL("postgres://u:p@db:5432/gc?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/gc", PGXURL("postgresql://u@db/gc"))
	assert.Equal(t, "pgx5://ya", PGXURL("pgx5://ya"))
}
