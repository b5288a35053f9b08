package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/capacity/pkg/domain/entities"
	"github.com/vsinha/capacity/pkg/domain/repositories"
)

// MaterialRepository provides in-memory raw material storage
type MaterialRepository struct {
	mu           sync.RWMutex
	materials    []entities.Material
	materialsMap map[entities.MaterialID]int
}

// NewMaterialRepository creates a new in-memory material repository
func NewMaterialRepository(expectedMaterials int) *MaterialRepository {
	return &MaterialRepository{
		materials:    make([]entities.Material, 0, expectedMaterials),
		materialsMap: make(map[entities.MaterialID]int, expectedMaterials),
	}
}

// Verify interface compliance
var _ repositories.MaterialRepository = (*MaterialRepository)(nil)

// LoadMaterials loads materials into the repository
func (r *MaterialRepository) LoadMaterials(_ context.Context, materials []*entities.Material) error {
	for _, material := range materials {
		if material == nil {
			continue
		}
		r.AddMaterial(*material)
	}
	return nil
}

// AddMaterial adds a material, replacing any existing material with the same id
func (r *MaterialRepository) AddMaterial(material entities.Material) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if material.Stock != nil {
		stock := *material.Stock
		material.Stock = &stock
	}
	if index, exists := r.materialsMap[material.ID]; exists {
		r.materials[index] = material
		return
	}
	r.materialsMap[material.ID] = len(r.materials)
	r.materials = append(r.materials, material)
}

// GetMaterial returns a material by id
func (r *MaterialRepository) GetMaterial(_ context.Context, id entities.MaterialID) (*entities.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.materialsMap[id]
	if !exists {
		return nil, fmt.Errorf("material %s: %w", id, repositories.ErrNotFound)
	}
	material := r.materials[index]
	return &material, nil
}

// GetAllMaterials returns all materials in insertion order
func (r *MaterialRepository) GetAllMaterials(_ context.Context) ([]*entities.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	materials := make([]*entities.Material, 0, len(r.materials))
	for i := range r.materials {
		material := r.materials[i]
		materials = append(materials, &material)
	}
	return materials, nil
}
