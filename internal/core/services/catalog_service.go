package services

import (
	"context"
	"fmt"

	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

type catalogService struct {
	listRepo ports.ListRepository
}

func NewCatalogService(listRepo ports.ListRepository) ports.CatalogService {
	return &catalogService{listRepo: listRepo}
}

func (s *catalogService) Lists(ctx context.Context) (map[domain.Category][]domain.CandidateList, error) {
	cat, err := s.listRepo.GetCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	grouped := map[domain.Category][]domain.CandidateList{
		domain.CategoryLocal:      {},
		domain.CategoryProvincial: {},
	}
	for _, l := range cat.Lists() {
		grouped[l.Category] = append(grouped[l.Category], l)
	}
	return grouped, nil
}
