package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

// ConfigKeyEstimatedElectorate is the system-config key holding the
// administratively estimated number of electors.
const ConfigKeyEstimatedElectorate = "ESTIMATED_ELECTORATE"

type aggregationService struct {
	tableRepo  ports.TableRepository
	listRepo   ports.ListRepository
	resultRepo ports.ResultRepository
	configRepo ports.ConfigRepository
}

func NewAggregationService(tableRepo ports.TableRepository, listRepo ports.ListRepository, resultRepo ports.ResultRepository, configRepo ports.ConfigRepository) ports.AggregationService {
	return &aggregationService{
		tableRepo:  tableRepo,
		listRepo:   listRepo,
		resultRepo: resultRepo,
		configRepo: configRepo,
	}
}

// Results groups current vote lines by list and ranks them by vote
// count. Ties keep catalog order, which the repository guarantees as a
// stable secondary ordering. Nothing is cached: each call reflects the
// store's current snapshot.
func (s *aggregationService) Results(ctx context.Context, category *domain.Category) (*domain.ResultSet, error) {
	totals, err := s.resultRepo.SumVotesByList(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to sum votes: %w", err)
	}

	cat, err := s.listRepo.GetCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	var totalVotes int64
	for _, t := range totals {
		totalVotes += t.Votes
	}

	set := &domain.ResultSet{
		Results:    make([]domain.ListResult, 0, len(totals)),
		TotalVotes: totalVotes,
	}

	for _, t := range totals {
		list, ok := cat.ByID(t.ListID)
		if !ok {
			return nil, fmt.Errorf("vote total references unknown list %d", t.ListID)
		}

		percentage := 0.0
		if totalVotes > 0 {
			percentage = float64(t.Votes) / float64(totalVotes) * 100
		}

		set.Results = append(set.Results, domain.ListResult{
			List:       list.Name,
			Category:   list.Category,
			Votes:      t.Votes,
			Percentage: percentage,
		})
	}

	return set, nil
}

func (s *aggregationService) Stats(ctx context.Context) (*domain.SystemStats, error) {
	total, submitted, err := s.tableRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tables: %w", err)
	}

	votesTotal, err := s.resultRepo.TotalVotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to total votes: %w", err)
	}

	electorsVoted, err := s.resultRepo.TotalElectorsVoted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to total electors: %w", err)
	}

	electorate, err := s.estimatedElectorate(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.SystemStats{
		TablesTotal:         total,
		TablesSubmitted:     submitted,
		TablesPending:       total - submitted,
		VotesTotal:          votesTotal,
		EstimatedElectorate: electorate,
	}

	if total > 0 {
		stats.ProgressPercent = float64(submitted) / float64(total) * 100
	}

	// Participation divides the electors-who-voted sum, not the vote
	// line sum, since every elector casts two ballots. A stale
	// electorate estimate can push this past 100; it is reported as-is.
	if electorate > 0 {
		stats.EstimatedParticipationPercent = float64(electorsVoted) / float64(electorate) * 100
	}

	return stats, nil
}

func (s *aggregationService) estimatedElectorate(ctx context.Context) (int64, error) {
	raw, err := s.configRepo.Get(ctx, ConfigKeyEstimatedElectorate)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read electorate config: %w", err)
	}

	electorate, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", ConfigKeyEstimatedElectorate, raw, err)
	}
	return electorate, nil
}
