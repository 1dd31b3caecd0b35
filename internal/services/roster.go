package services

import (
	"context"
	"time"

	"github.com/fieldops/boardgate/internal/boardapi"
	"github.com/fieldops/boardgate/internal/cache"
	"github.com/fieldops/boardgate/internal/model"
	"github.com/fieldops/boardgate/internal/roster"
)

// RosterService answers assignment queries for the route layer.
type RosterService struct {
	resolver *roster.Resolver
	client   boardapi.Client

	// Asset metadata is immutable upstream, so it gets its own, much
	// longer TTL than joined query results.
	assetCache *cache.Store
	assetTTL   time.Duration
}

// NewRosterService creates a RosterService.
func NewRosterService(r *roster.Resolver, client boardapi.Client, assetCache *cache.Store, assetTTL time.Duration) *RosterService {
	return &RosterService{resolver: r, client: client, assetCache: assetCache, assetTTL: assetTTL}
}

// ResolveAssignments returns the worker's filtered, paged assignments.
func (s *RosterService) ResolveAssignments(ctx context.Context, email string, opts roster.Options) (model.AssignmentPage, error) {
	return s.resolver.ResolveAssignments(ctx, email, opts)
}

// AssignmentDetails returns one assignment with its file attachments
// resolved to URLs. A child the worker is not matched to reads as absent.
func (s *RosterService) AssignmentDetails(ctx context.Context, email, childID string) (*model.AssignmentDetails, error) {
	a, found, err := s.resolver.FindAssignment(ctx, email, childID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	details := &model.AssignmentDetails{Assignment: a}
	if len(a.FileIDs) == 0 {
		return details, nil
	}

	refs, err := s.resolveAssets(ctx, a.FileIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range a.FileIDs {
		if ref, ok := refs[id]; ok {
			details.Files = append(details.Files, ref)
		}
	}
	return details, nil
}

// resolveAssets fills asset refs from the cache and fetches only the
// misses.
func (s *RosterService) resolveAssets(ctx context.Context, ids []string) (map[string]model.AssetRef, error) {
	out := make(map[string]model.AssetRef, len(ids))
	var missing []string
	for _, id := range ids {
		if s.assetCache != nil {
			if v, ok := s.assetCache.Get("asset|" + id); ok {
				if ref, ok := v.(model.AssetRef); ok {
					out[id] = ref
					continue
				}
			}
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := s.client.ResolveAssetRefs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, ref := range fetched {
		out[id] = ref
		if s.assetCache != nil {
			s.assetCache.SetTTL("asset|"+id, ref, s.assetTTL)
		}
	}
	return out, nil
}
