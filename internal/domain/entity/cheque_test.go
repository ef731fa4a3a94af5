package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
)

func TestCheque_TransicionesDesdeCartera(t *testing.T) {
	c := &entity.Cheque{Status: entity.ChequeStatusPending}
	assert.True(t, c.CanTransitionTo(entity.ChequeStatusDeposited))
	assert.True(t, c.CanTransitionTo(entity.ChequeStatusEndorsed))
	assert.True(t, c.CanTransitionTo(entity.ChequeStatusRejected))
	assert.False(t, c.CanTransitionTo(entity.ChequeStatusPending))
}

func TestCheque_DepositadoSoloPuedeRechazarse(t *testing.T) {
	c := &entity.Cheque{Status: entity.ChequeStatusDeposited}
	assert.True(t, c.CanTransitionTo(entity.ChequeStatusRejected))
	assert.False(t, c.CanTransitionTo(entity.ChequeStatusEndorsed))
	assert.False(t, c.CanTransitionTo(entity.ChequeStatusPending))
}

func TestCheque_EstadosTerminales(t *testing.T) {
	for _, st := range []string{entity.ChequeStatusEndorsed, entity.ChequeStatusRejected} {
		c := &entity.Cheque{Status: st}
		for _, next := range []string{entity.ChequeStatusPending, entity.ChequeStatusDeposited, entity.ChequeStatusEndorsed, entity.ChequeStatusRejected} {
			assert.False(t, c.CanTransitionTo(next), "%s → %s no debe permitirse", st, next)
		}
	}
}

func TestQuote_Transiciones(t *testing.T) {
	q := &entity.Quote{Status: entity.QuoteStatusDraft}
	assert.True(t, q.CanTransitionTo(entity.QuoteStatusSent))
	assert.False(t, q.CanTransitionTo(entity.QuoteStatusConverted))

	q.Status = entity.QuoteStatusAccepted
	assert.True(t, q.CanTransitionTo(entity.QuoteStatusConverted))
	assert.False(t, q.CanTransitionTo(entity.QuoteStatusRejected))

	q.Status = entity.QuoteStatusRejected
	assert.False(t, q.CanTransitionTo(entity.QuoteStatusAccepted))
}

func TestQuote_IsExpired(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	q := &entity.Quote{ValidUntil: now.Add(-time.Hour)}
	assert.True(t, q.IsExpired(now))
	q.ValidUntil = now.Add(time.Hour)
	assert.False(t, q.IsExpired(now))
	q.ValidUntil = time.Time{}
	assert.False(t, q.IsExpired(now))
}
