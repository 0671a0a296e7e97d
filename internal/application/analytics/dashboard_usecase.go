// Package analytics contiene las consultas de resumen del almacén (solo lectura).
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// DashboardUseCase genera los conteos del tablero: artículos, stock total, agotados y préstamos pendientes.
// Consultas puras; no toma bloqueos.
type DashboardUseCase struct {
	items repository.ItemRepository
	loans repository.LoanRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(items repository.ItemRepository, loans repository.LoanRepository) *DashboardUseCase {
	return &DashboardUseCase{items: items, loans: loans}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Dos llamadas en paralelo:
//  1. ItemRepository.Summary     → Items, TotalStock, OutOfStock
//  2. LoanRepository.CountOutstanding → OutstandingLoans
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type summaryResult struct {
		summary repository.ItemSummary
		err     error
	}
	type countResult struct {
		n   int
		err error
	}

	summaryCh := make(chan summaryResult, 1)
	loansCh := make(chan countResult, 1)

	go func() {
		s, err := uc.items.Summary(ctx)
		summaryCh <- summaryResult{s, err}
	}()
	go func() {
		n, err := uc.loans.CountOutstanding(ctx)
		loansCh <- countResult{n, err}
	}()

	sum := <-summaryCh
	loans := <-loansCh

	if sum.err != nil {
		return nil, fmt.Errorf("dashboard: resumen de artículos: %w", sum.err)
	}
	if loans.err != nil {
		return nil, fmt.Errorf("dashboard: préstamos pendientes: %w", loans.err)
	}

	return &dto.DashboardSummaryDTO{
		Items:            sum.summary.Items,
		TotalStock:       sum.summary.TotalStock,
		OutOfStock:       sum.summary.OutOfStock,
		OutstandingLoans: loans.n,
	}, nil
}
