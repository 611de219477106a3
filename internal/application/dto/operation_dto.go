package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationLineRequest línea en el body de POST /api/operations.
type OperationLineRequest struct {
	ProductID      string           `json:"product_id"`
	DemandQuantity decimal.Decimal  `json:"demand_quantity"`
	DoneQuantity   *decimal.Decimal `json:"done_quantity,omitempty"`
}

// CreateOperationRequest body para POST /api/operations.
type CreateOperationRequest struct {
	Reference             string                 `json:"reference"`
	Type                  string                 `json:"type"` // RECEIPT | DELIVERY | INTERNAL_TRANSFER | ADJUSTMENT
	SourceLocationID      string                 `json:"source_location_id"`
	DestinationLocationID string                 `json:"destination_location_id"`
	PartnerID             *string                `json:"partner_id,omitempty"`
	ScheduledDate         *time.Time             `json:"scheduled_date,omitempty"`
	Lines                 []OperationLineRequest `json:"lines"`
}

// ListOperationsRequest filtros de GET /api/operations (vacío = todos).
type ListOperationsRequest struct {
	Type   string
	Status string
	Limit  int
	Offset int
}

// LocationRefDTO ubicación referenciada por una operación (poblada con nombre y tipo).
type LocationRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// OperationLineResponse línea con el producto poblado.
type OperationLineResponse struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku,omitempty"`
	ProductName       string          `json:"product_name,omitempty"`
	DemandQuantity    decimal.Decimal `json:"demand_quantity"`
	DoneQuantity      decimal.Decimal `json:"done_quantity"`
	EffectiveQuantity decimal.Decimal `json:"effective_quantity"` // la que se aplica (o aplicó) al validar
}

// OperationResponse salida de una operación.
type OperationResponse struct {
	ID                  string                  `json:"id"`
	Reference           string                  `json:"reference"`
	Type                string                  `json:"type"`
	Status              string                  `json:"status"`
	SourceLocation      LocationRefDTO          `json:"source_location"`
	DestinationLocation LocationRefDTO          `json:"destination_location"`
	PartnerID           *string                 `json:"partner_id,omitempty"`
	ScheduledDate       time.Time               `json:"scheduled_date"`
	Lines               []OperationLineResponse `json:"lines"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

// OperationListResponse lista paginada de operaciones.
type OperationListResponse struct {
	Items []OperationResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
