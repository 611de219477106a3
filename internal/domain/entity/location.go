package entity

import (
	"fmt"
	"strings"
	"time"
)

// LocationType tipo de ubicación.
type LocationType string

const (
	LocationTypeInternal      LocationType = "INTERNAL"       // bodega o estante propio
	LocationTypeCustomer      LocationType = "CUSTOMER"       // virtual: stock entregado a clientes
	LocationTypeVendor        LocationType = "VENDOR"         // virtual: stock que llega de proveedores
	LocationTypeInventoryLoss LocationType = "INVENTORY_LOSS" // virtual: mermas y ajustes
	LocationTypeView          LocationType = "VIEW"           // agrupador, no debería recibir stock
)

// LocationTypes lista los tipos válidos.
var LocationTypes = []LocationType{
	LocationTypeInternal,
	LocationTypeCustomer,
	LocationTypeVendor,
	LocationTypeInventoryLoss,
	LocationTypeView,
}

// ParseLocationType convierte un string al tipo; falla con valores desconocidos.
func ParseLocationType(s string) (LocationType, error) {
	t := LocationType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range LocationTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("tipo de ubicación desconocido: %q", s)
}

// IsVirtual indica si la ubicación representa stock fuera de la red (fuente/sumidero infinito).
func (t LocationType) IsVirtual() bool {
	return t == LocationTypeVendor || t == LocationTypeCustomer || t == LocationTypeInventoryLoss
}

// Location referencia de solo lectura a una ubicación administrada por el servicio de ubicaciones.
type Location struct {
	ID        string
	Name      string
	Type      LocationType
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
