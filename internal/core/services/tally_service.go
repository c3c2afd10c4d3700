package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

type tallyService struct {
	tableRepo ports.TableRepository
	listRepo  ports.ListRepository
	tallyRepo ports.TallyRepository
	rules     domain.Rules
}

func NewTallyService(tableRepo ports.TableRepository, listRepo ports.ListRepository, tallyRepo ports.TallyRepository, rules domain.Rules) ports.TallyService {
	return &tallyService{
		tableRepo: tableRepo,
		listRepo:  listRepo,
		tallyRepo: tallyRepo,
		rules:     rules,
	}
}

func (s *tallyService) SubmitTally(ctx context.Context, input ports.SubmitTallyInput) (*domain.TallyRecord, domain.Outcome, error) {
	sub := input.Submission

	tableExists := true
	if _, err := s.tableRepo.GetByNumber(ctx, sub.TableNumber); err != nil {
		if !errors.Is(err, domain.ErrTableNotFound) {
			return nil, domain.Outcome{}, fmt.Errorf("failed to look up table %d: %w", sub.TableNumber, err)
		}
		tableExists = false
	}

	cat, err := s.listRepo.GetCatalog(ctx)
	if err != nil {
		return nil, domain.Outcome{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	outcome := domain.Validate(sub, tableExists, cat, s.rules)
	if !outcome.OK() {
		return nil, outcome, nil
	}

	rec := &domain.TallyRecord{
		TableNumber:       sub.TableNumber,
		ElectorsVoted:     sub.ElectorsVoted,
		EnvelopesReceived: sub.EnvelopesReceived,
		BlankVotes:        sub.BlankVotes,
		ChallengedVotes:   sub.ChallengedVotes,
		DeferredVotes:     sub.DeferredVotes,
		Notes:             sub.Notes,
		OperatorID:        input.OperatorID,
		SubmittedAt:       time.Now().UTC(),
	}
	rec.ComputeDifference()

	lines := buildVoteLines(sub, cat)

	if err := s.tallyRepo.CommitTally(ctx, rec, lines); err != nil {
		return nil, outcome, fmt.Errorf("failed to commit tally for table %d: %w", sub.TableNumber, err)
	}

	return rec, outcome, nil
}

// buildVoteLines translates validated name-keyed counts into catalog
// keyed lines. Zero counts are dropped: an omitted or zeroed list means
// "no votes", and the stored line set only carries positives.
func buildVoteLines(sub domain.Submission, cat domain.Catalog) []domain.VoteLine {
	var lines []domain.VoteLine

	appendLines := func(category domain.Category, votes map[string]int) {
		for name, count := range votes {
			if count <= 0 {
				continue
			}
			list, ok := cat.Resolve(category, name)
			if !ok {
				continue // unreachable after validation
			}
			lines = append(lines, domain.VoteLine{
				TableNumber: sub.TableNumber,
				ListID:      list.ID,
				Count:       count,
			})
		}
	}

	appendLines(domain.CategoryLocal, sub.LocalVotes)
	appendLines(domain.CategoryProvincial, sub.ProvincialVotes)

	return lines
}
