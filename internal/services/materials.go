package services

import (
	"context"

	"github.com/fieldops/boardgate/internal/materials"
	"github.com/fieldops/boardgate/internal/model"
)

// MaterialsService answers materials queries for the route layer.
type MaterialsService struct {
	resolver *materials.Resolver
}

// NewMaterialsService creates a MaterialsService.
func NewMaterialsService(r *materials.Resolver) *MaterialsService {
	return &MaterialsService{resolver: r}
}

// MaterialsForJob resolves the material lines for a job, or nil when the
// scope status opts out or nothing applies.
func (s *MaterialsService) MaterialsForJob(ctx context.Context, jobText, scopeStatus string) (*model.MaterialsResult, error) {
	return s.resolver.Resolve(ctx, jobText, scopeStatus)
}
