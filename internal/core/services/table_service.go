package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

type tableService struct {
	tableRepo ports.TableRepository
	listRepo  ports.ListRepository
	tallyRepo ports.TallyRepository
	rules     domain.Rules
}

func NewTableService(tableRepo ports.TableRepository, listRepo ports.ListRepository, tallyRepo ports.TallyRepository, rules domain.Rules) ports.TableService {
	return &tableService{
		tableRepo: tableRepo,
		listRepo:  listRepo,
		tallyRepo: tallyRepo,
		rules:     rules,
	}
}

func (s *tableService) ListTables(ctx context.Context, filter ports.ListTablesFilter) ([]*domain.PollingTable, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.tableRepo.List(ctx, filter)
}

func (s *tableService) ListPending(ctx context.Context) ([]*domain.PollingTable, error) {
	return s.tableRepo.ListPending(ctx)
}

func (s *tableService) GetDetail(ctx context.Context, number int) (*ports.TableDetail, error) {
	table, err := s.tableRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	detail := &ports.TableDetail{
		Table:           table,
		LocalVotes:      []ports.VoteLineDetail{},
		ProvincialVotes: []ports.VoteLineDetail{},
	}

	acta, err := s.tallyRepo.GetActa(ctx, number)
	if err != nil {
		if !errors.Is(err, domain.ErrActaNotFound) {
			return nil, fmt.Errorf("failed to get acta for table %d: %w", number, err)
		}
		return detail, nil
	}
	detail.Acta = acta

	cat, err := s.listRepo.GetCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	lines, err := s.tallyRepo.ListVotesForTable(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes for table %d: %w", number, err)
	}

	for _, line := range lines {
		list, ok := cat.ByID(line.ListID)
		if !ok {
			return nil, fmt.Errorf("vote line references unknown list %d", line.ListID)
		}
		d := ports.VoteLineDetail{List: list, Count: line.Count}
		switch list.Category {
		case domain.CategoryLocal:
			detail.LocalVotes = append(detail.LocalVotes, d)
			detail.LocalTotal += line.Count
		case domain.CategoryProvincial:
			detail.ProvincialVotes = append(detail.ProvincialVotes, d)
			detail.ProvincialTotal += line.Count
		}
	}

	return detail, nil
}

// ValidateStored re-runs the consistency checks against what is
// actually stored for a submitted table, so a reviewer can audit an
// acta after the fact.
func (s *tableService) ValidateStored(ctx context.Context, number int) (*domain.StoredValidation, error) {
	detail, err := s.GetDetail(ctx, number)
	if err != nil {
		return nil, err
	}
	if !detail.Table.Submitted() || detail.Acta == nil {
		return nil, domain.ErrActaNotFound
	}

	v := &domain.StoredValidation{
		TableNumber: number,
		Errors:      []domain.ErrorKind{},
		Warnings:    []domain.WarningKind{},
	}

	envelopes := detail.Acta.EnvelopesReceived
	v.Stats.EnvelopesReceived = envelopes
	v.Stats.LocalVotes = detail.LocalTotal
	v.Stats.ProvincialVotes = detail.ProvincialTotal

	if detail.LocalTotal > envelopes {
		v.Errors = append(v.Errors, domain.ErrKindLocalVotesExceedEnvelopes)
	}
	if detail.ProvincialTotal > envelopes {
		v.Errors = append(v.Errors, domain.ErrKindProvincialVotesExceedEnvelope)
	}

	if detail.LocalTotal == 0 {
		v.Warnings = append(v.Warnings, domain.WarnZeroCategoryVotes)
	}
	if detail.ProvincialTotal == 0 {
		v.Warnings = append(v.Warnings, domain.WarnZeroCategoryVotes)
	}

	if envelopes > 0 {
		localRatio := float64(detail.LocalTotal) / float64(envelopes)
		provincialRatio := float64(detail.ProvincialTotal) / float64(envelopes)
		v.Stats.LocalParticipationPct = localRatio * 100
		v.Stats.ProvincialParticipationPct = provincialRatio * 100

		if max(localRatio, provincialRatio) < s.rules.ParticipationWarnRatio {
			v.Warnings = append(v.Warnings, domain.WarnLowParticipation)
		}
	}

	v.Valid = len(v.Errors) == 0
	return v, nil
}
