package inventory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// Préstamos y devoluciones concurrentes sobre el mismo artículo: cada préstamo se devuelve
// una sola vez aunque dos devoluciones compitan, y el stock vuelve al valor inicial.
func TestLoans_ConcurrentLendAndReturn(t *testing.T) {
	const workers = 30
	l := newLedger()
	ctx := context.Background()
	id := l.item(t, "Proyektor", 10)

	var lent, rejected, returned, alreadyReturned atomic.Int32
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loan, err := l.loans.CreateLoan(ctx, staff, loanRequest(id, 1))
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				rejected.Add(1)
				return
			}
			lent.Add(1)

			var inner sync.WaitGroup
			for range 2 {
				inner.Add(1)
				go func() {
					defer inner.Done()
					_, err := l.loans.ReturnLoan(ctx, staff, loan.ID)
					switch {
					case err == nil:
						returned.Add(1)
					case errors.Is(err, domain.ErrLoanAlreadyReturned):
						alreadyReturned.Add(1)
					default:
						assert.NoError(t, err)
					}
				}()
			}
			inner.Wait()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(workers), lent.Load()+rejected.Load())
	assert.Equal(t, lent.Load(), returned.Load(), "cada préstamo se devuelve exactamente una vez")
	assert.Equal(t, lent.Load(), alreadyReturned.Load())
	assert.Equal(t, 10, l.stock(t, id))
	l.requireConsistent(t)
}

// Préstamos concurrentes que superan el stock: se aceptan exactamente los que caben.
func TestLoans_ConcurrentLendingNeverOverdraws(t *testing.T) {
	const workers = 25
	l := newLedger()
	id := l.item(t, "Kabel roll", 10)

	var ok, insufficient atomic.Int32
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.loans.CreateLoan(context.Background(), staff, loanRequest(id, 1))
			if errors.Is(err, domain.ErrInsufficientStock) {
				insufficient.Add(1)
				return
			}
			if assert.NoError(t, err) {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(10), ok.Load())
	assert.Equal(t, int32(workers-10), insufficient.Load())
	assert.Equal(t, 0, l.stock(t, id))
	l.requireConsistent(t)
}
