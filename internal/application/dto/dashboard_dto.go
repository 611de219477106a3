package dto

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	TotalProducts     int `json:"total_products"`
	PendingReceipts   int `json:"pending_receipts"`   // RECEIPT en DRAFT o READY
	PendingDeliveries int `json:"pending_deliveries"` // DELIVERY en DRAFT o READY
	LowStockCount     int `json:"low_stock_count"`    // productos bajo su stock mínimo (ubicaciones internas)
}
