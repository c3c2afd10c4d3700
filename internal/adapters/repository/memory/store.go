// Package memory is an in-process implementation of every repository
// port. It backs unit tests and local development; the commit path
// honors the same per-table serialization contract as the postgres
// adapter, including the bounded lock wait.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

const defaultLockTimeout = 3 * time.Second

type Store struct {
	mu sync.RWMutex

	tables    map[int]domain.PollingTable
	lists     []domain.CandidateList
	actas     map[int]domain.TallyRecord
	votes     map[int][]domain.VoteLine
	config    map[string]string
	operators map[string]domain.Operator

	lockMu      sync.Mutex
	tableLocks  map[int]chan struct{}
	LockTimeout time.Duration
}

func NewStore() *Store {
	return &Store{
		tables:      make(map[int]domain.PollingTable),
		actas:       make(map[int]domain.TallyRecord),
		votes:       make(map[int][]domain.VoteLine),
		config:      make(map[string]string),
		operators:   make(map[string]domain.Operator),
		tableLocks:  make(map[int]chan struct{}),
		LockTimeout: defaultLockTimeout,
	}
}

func (s *Store) SeedTable(t domain.PollingTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.Number] = t
}

// SeedTables registers numbers 1..n as pending tables with generic
// location labels.
func (s *Store) SeedTables(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 1; i <= n; i++ {
		s.tables[i] = domain.PollingTable{
			Number:   i,
			Location: "Mesa",
			Status:   domain.StatusPending,
		}
	}
}

func (s *Store) SeedLists(lists []domain.CandidateList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = append(s.lists, lists...)
}

func (s *Store) SeedOperator(op domain.Operator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operators[op.Email] = op
}

// --- ports.TableRepository ---

func (s *Store) GetByNumber(_ context.Context, number int) (*domain.PollingTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[number]
	if !ok {
		return nil, domain.ErrTableNotFound
	}
	return &t, nil
}

func (s *Store) List(_ context.Context, filter ports.ListTablesFilter) ([]*domain.PollingTable, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.sortedTables(filter.Status)
	total := len(matched)

	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (s *Store) ListPending(_ context.Context) ([]*domain.PollingTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := domain.StatusPending
	return s.sortedTables(&pending), nil
}

func (s *Store) CountByStatus(_ context.Context) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	submitted := 0
	for _, t := range s.tables {
		if t.Status == domain.StatusSubmitted {
			submitted++
		}
	}
	return len(s.tables), submitted, nil
}

func (s *Store) sortedTables(status *domain.TableStatus) []*domain.PollingTable {
	var tables []*domain.PollingTable
	for _, t := range s.tables {
		if status != nil && t.Status != *status {
			continue
		}
		t := t
		tables = append(tables, &t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return tables
}

// --- ports.ListRepository ---

func (s *Store) GetCatalog(_ context.Context) (domain.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lists := append([]domain.CandidateList(nil), s.lists...)
	sort.SliceStable(lists, func(i, j int) bool {
		if lists[i].Category != lists[j].Category {
			return lists[i].Category < lists[j].Category
		}
		return lists[i].Rank < lists[j].Rank
	})
	return domain.NewCatalog(lists), nil
}

// --- ports.TallyRepository ---

func (s *Store) CommitTally(ctx context.Context, rec *domain.TallyRecord, lines []domain.VoteLine) error {
	release, err := s.acquireTableLock(ctx, rec.TableNumber)
	if err != nil {
		return err
	}
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[rec.TableNumber]
	if !ok {
		return domain.ErrTableNotFound
	}

	s.actas[rec.TableNumber] = *rec
	s.votes[rec.TableNumber] = append([]domain.VoteLine(nil), lines...)

	submittedAt := rec.SubmittedAt
	operatorID := rec.OperatorID
	t.Status = domain.StatusSubmitted
	t.SubmittedAt = &submittedAt
	t.SubmittedBy = &operatorID
	s.tables[rec.TableNumber] = t

	return nil
}

func (s *Store) GetActa(_ context.Context, tableNumber int) (*domain.TallyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.actas[tableNumber]
	if !ok {
		return nil, domain.ErrActaNotFound
	}
	return &rec, nil
}

// ListVotesForTable returns the table's lines in catalog order, the
// same ordering the postgres adapter produces.
func (s *Store) ListVotesForTable(_ context.Context, tableNumber int) ([]domain.VoteLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[int64]domain.CandidateList, len(s.lists))
	for _, l := range s.lists {
		byID[l.ID] = l
	}

	lines := append([]domain.VoteLine(nil), s.votes[tableNumber]...)
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := byID[lines[i].ListID], byID[lines[j].ListID]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Rank < b.Rank
	})
	return lines, nil
}

// acquireTableLock serializes commits per table. A writer that cannot
// take the lock within LockTimeout gets domain.ErrWriteConflict, the
// same retryable failure the postgres adapter maps lock timeouts to.
func (s *Store) acquireTableLock(ctx context.Context, tableNumber int) (func(), error) {
	s.lockMu.Lock()
	ch, ok := s.tableLocks[tableNumber]
	if !ok {
		ch = make(chan struct{}, 1)
		s.tableLocks[tableNumber] = ch
	}
	s.lockMu.Unlock()

	timer := time.NewTimer(s.LockTimeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-timer.C:
		return nil, domain.ErrWriteConflict
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LockTable takes a table's commit lock directly, simulating a slow
// concurrent writer holding the table.
func (s *Store) LockTable(ctx context.Context, tableNumber int) (func(), error) {
	return s.acquireTableLock(ctx, tableNumber)
}

// --- ports.ResultRepository ---

func (s *Store) SumVotesByList(_ context.Context, category *domain.Category) ([]ports.ListTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[int64]domain.CandidateList, len(s.lists))
	for _, l := range s.lists {
		byID[l.ID] = l
	}

	sums := make(map[int64]int64)
	for _, lines := range s.votes {
		for _, line := range lines {
			list, ok := byID[line.ListID]
			if !ok {
				continue
			}
			if category != nil && list.Category != *category {
				continue
			}
			sums[line.ListID] += int64(line.Count)
		}
	}

	// Start from catalog order so the descending sort below stays
	// stable for equal counts.
	ordered := append([]domain.CandidateList(nil), s.lists...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Category != ordered[j].Category {
			return ordered[i].Category < ordered[j].Category
		}
		return ordered[i].Rank < ordered[j].Rank
	})

	var totals []ports.ListTotal
	for _, l := range ordered {
		if votes, ok := sums[l.ID]; ok {
			totals = append(totals, ports.ListTotal{ListID: l.ID, Votes: votes})
		}
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Votes > totals[j].Votes })

	return totals, nil
}

func (s *Store) TotalVotes(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, lines := range s.votes {
		for _, line := range lines {
			total += int64(line.Count)
		}
	}
	return total, nil
}

func (s *Store) TotalElectorsVoted(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, rec := range s.actas {
		total += int64(rec.ElectorsVoted)
	}
	return total, nil
}

// --- ports.ConfigRepository ---

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.config[key]
	if !ok {
		return "", domain.ErrConfigNotFound
	}
	return value, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config[key] = value
	return nil
}

// --- ports.OperatorRepository ---

func (s *Store) GetByEmail(_ context.Context, email string) (*domain.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.operators[email]
	if !ok {
		return nil, domain.ErrOperatorNotFound
	}
	return &op, nil
}

func (s *Store) GetByID(_ context.Context, id string) (*domain.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, op := range s.operators {
		if op.ID.String() == id {
			op := op
			return &op, nil
		}
	}
	return nil, domain.ErrOperatorNotFound
}

func (s *Store) Create(_ context.Context, op *domain.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	op.CreatedAt = time.Now()
	s.operators[op.Email] = *op
	return nil
}
