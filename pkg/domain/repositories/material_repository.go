package repositories

import (
	"context"

	"github.com/vsinha/capacity/pkg/domain/entities"
)

// MaterialRepository provides access to raw materials and their stock
type MaterialRepository interface {
	GetMaterial(ctx context.Context, id entities.MaterialID) (*entities.Material, error)
	GetAllMaterials(ctx context.Context) ([]*entities.Material, error)
	LoadMaterials(ctx context.Context, materials []*entities.Material) error
}
