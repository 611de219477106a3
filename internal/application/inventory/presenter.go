package inventory

import (
	"context"

	"github.com/jhoicas/stock-operations-api/internal/application/dto"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-operations-api/internal/domain/inventory"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
	"github.com/jhoicas/stock-operations-api/pkg/logger"
)

// presenter convierte operaciones en DTOs poblando ubicaciones y productos.
// Poblar es de mejor esfuerzo: si la lectura falla se devuelven solo los IDs.
type presenter struct {
	locations repository.LocationRepository
	products  repository.ProductRepository
	log       *logger.Logger
}

func (p presenter) present(ctx context.Context, op *entity.Operation) *dto.OperationResponse {
	list := p.presentMany(ctx, []*entity.Operation{op})
	return &list[0]
}

func (p presenter) presentMany(ctx context.Context, ops []*entity.Operation) []dto.OperationResponse {
	locIDs := make([]string, 0, 2*len(ops))
	var prodIDs []string
	for _, op := range ops {
		locIDs = append(locIDs, op.SourceLocationID, op.DestinationLocationID)
		for _, l := range op.Lines {
			prodIDs = append(prodIDs, l.ProductID)
		}
	}

	locs, err := p.locations.GetByIDs(ctx, unique(locIDs))
	if err != nil {
		p.log.Warn().Err(err).Msg("poblar ubicaciones")
		locs = nil
	}
	prods, err := p.products.GetByIDs(ctx, unique(prodIDs))
	if err != nil {
		p.log.Warn().Err(err).Msg("poblar productos")
		prods = nil
	}

	out := make([]dto.OperationResponse, 0, len(ops))
	for _, op := range ops {
		lines := make([]dto.OperationLineResponse, 0, len(op.Lines))
		for _, l := range op.Lines {
			line := dto.OperationLineResponse{
				ProductID:         l.ProductID,
				DemandQuantity:    l.DemandQuantity,
				DoneQuantity:      l.DoneQuantity,
				EffectiveQuantity: domaininv.EffectiveQuantity(l),
			}
			if prod, ok := prods[l.ProductID]; ok {
				line.SKU = prod.SKU
				line.ProductName = prod.Name
			}
			lines = append(lines, line)
		}
		out = append(out, dto.OperationResponse{
			ID:                  op.ID,
			Reference:           op.Reference,
			Type:                string(op.Type),
			Status:              string(op.Status),
			SourceLocation:      locationRef(op.SourceLocationID, locs),
			DestinationLocation: locationRef(op.DestinationLocationID, locs),
			PartnerID:           op.PartnerID,
			ScheduledDate:       op.ScheduledDate,
			Lines:               lines,
			CreatedAt:           op.CreatedAt,
			UpdatedAt:           op.UpdatedAt,
		})
	}
	return out
}

func locationRef(id string, locs map[string]*entity.Location) dto.LocationRefDTO {
	ref := dto.LocationRefDTO{ID: id}
	if loc, ok := locs[id]; ok {
		ref.Name = loc.Name
		ref.Type = string(loc.Type)
	}
	return ref
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
