package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuantResponse saldo de un producto en una ubicación.
type QuantResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"` // nil si la fila aún no existe
}

// QuantListResponse listado de saldos.
type QuantListResponse struct {
	Items []QuantResponse `json:"items"`
	Total int             `json:"total"`
}

// LedgerQuery filtros de GET /api/stock/ledger. Exactamente uno de ProductID, Reference o LocationID.
type LedgerQuery struct {
	ProductID  string
	Reference  string
	LocationID string
	Direction  string // IN | OUT | ANY (solo con LocationID)
	From       *time.Time
	To         *time.Time
}

// LedgerEntryResponse asiento de la bitácora.
type LedgerEntryResponse struct {
	ID                    string          `json:"id"`
	ProductID             string          `json:"product_id"`
	Quantity              decimal.Decimal `json:"quantity"`
	SourceLocationID      string          `json:"source_location_id"`
	DestinationLocationID string          `json:"destination_location_id"`
	OperationReference    string          `json:"operation_reference"`
	Date                  time.Time       `json:"date"`
}

// LedgerListResponse listado de asientos.
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Total int                   `json:"total"`
}

// ReconciliationResponse compara el quant con la suma de efectos de la bitácora.
type ReconciliationResponse struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	QuantQuantity  decimal.Decimal `json:"quant_quantity"`
	LedgerQuantity decimal.Decimal `json:"ledger_quantity"`
	Consistent     bool            `json:"consistent"`
}
