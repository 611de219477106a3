// Package analytics contiene los casos de uso de solo lectura del tablero de bodega.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-operations-api/internal/application/dto"
	"github.com/jhoicas/stock-operations-api/internal/domain"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
)

// DashboardUseCase arma los contadores del tablero.
//
// Fuente de datos: DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(dashboardRepo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{dashboardRepo: dashboardRepo}
}

// GetStats construye el DashboardStatsDTO.
//
// Cuatro consultas en paralelo:
//  1. CountProducts                      → TotalProducts
//  2. CountOperations(RECEIPT, pendientes)  → PendingReceipts
//  3. CountOperations(DELIVERY, pendientes) → PendingDeliveries
//  4. CountLowStock                      → LowStockCount
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	pending := []entity.OperationStatus{entity.OperationStatusDraft, entity.OperationStatusReady}

	type countResult struct {
		n   int
		err error
	}

	productsCh := make(chan countResult, 1)
	receiptsCh := make(chan countResult, 1)
	deliveriesCh := make(chan countResult, 1)
	lowStockCh := make(chan countResult, 1)

	go func() {
		n, err := uc.dashboardRepo.CountProducts(ctx)
		productsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.dashboardRepo.CountOperations(ctx, entity.OperationTypeReceipt, pending)
		receiptsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.dashboardRepo.CountOperations(ctx, entity.OperationTypeDelivery, pending)
		deliveriesCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.dashboardRepo.CountLowStock(ctx)
		lowStockCh <- countResult{n, err}
	}()

	products := <-productsCh
	receipts := <-receiptsCh
	deliveries := <-deliveriesCh
	lowStock := <-lowStockCh

	if products.err != nil {
		return nil, storageError("total de productos", products.err)
	}
	if receipts.err != nil {
		return nil, storageError("recepciones pendientes", receipts.err)
	}
	if deliveries.err != nil {
		return nil, storageError("entregas pendientes", deliveries.err)
	}
	if lowStock.err != nil {
		return nil, storageError("stock bajo", lowStock.err)
	}

	return &dto.DashboardStatsDTO{
		TotalProducts:     products.n,
		PendingReceipts:   receipts.n,
		PendingDeliveries: deliveries.n,
		LowStockCount:     lowStock.n,
	}, nil
}

// storageError los contadores son lecturas puras: cualquier fallo es del almacenamiento (reintentable).
func storageError(what string, err error) error {
	return fmt.Errorf("dashboard: %s: %w: %w", what, domain.ErrStorage, err)
}
