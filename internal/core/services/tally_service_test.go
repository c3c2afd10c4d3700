package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/tally/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

func newTestStore() *memory.Store {
	store := memory.NewStore()
	store.SeedTables(5)
	store.SeedLists([]domain.CandidateList{
		{ID: 1, Name: "FUERZA PATRIA", Category: domain.CategoryLocal, Rank: 1, Active: true},
		{ID: 2, Name: "POTENCIA", Category: domain.CategoryLocal, Rank: 2, Active: true},
		{ID: 3, Name: "FUERZA PATRIA", Category: domain.CategoryProvincial, Rank: 1, Active: true},
		{ID: 4, Name: "POTENCIA", Category: domain.CategoryProvincial, Rank: 2, Active: true},
	})
	return store
}

func newTallyService(store *memory.Store) ports.TallyService {
	return NewTallyService(store, store, store, domain.DefaultRules())
}

func submission() domain.Submission {
	return domain.Submission{
		TableNumber:       1,
		ElectorsVoted:     200,
		EnvelopesReceived: 195,
		LocalVotes:        map[string]int{"FUERZA PATRIA": 50, "POTENCIA": 40},
		ProvincialVotes:   map[string]int{"FUERZA PATRIA": 60, "POTENCIA": 50},
	}
}

func TestSubmitTallyCommits(t *testing.T) {
	store := newTestStore()
	service := newTallyService(store)
	operatorID := uuid.New()
	ctx := context.Background()

	rec, outcome, err := service.SubmitTally(ctx, ports.SubmitTallyInput{
		Submission: submission(),
		OperatorID: operatorID,
	})
	require.NoError(t, err)
	require.True(t, outcome.OK())
	require.NotNil(t, rec)

	assert.Equal(t, 5, rec.Difference)
	assert.Equal(t, operatorID, rec.OperatorID)

	table, err := store.GetByNumber(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, table.Status)
	require.NotNil(t, table.SubmittedBy)
	assert.Equal(t, operatorID, *table.SubmittedBy)

	acta, err := store.GetActa(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 200, acta.ElectorsVoted)
	assert.Equal(t, 195, acta.EnvelopesReceived)

	lines, err := store.ListVotesForTable(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, lines, 4)
	assert.LessOrEqual(t, categorySum(t, store, lines, domain.CategoryLocal), 195)
	assert.LessOrEqual(t, categorySum(t, store, lines, domain.CategoryProvincial), 195)

	// 90/195 and 110/195 are both under the 70% threshold.
	assert.Contains(t, outcome.Warnings, domain.WarnLowParticipation)
}

func TestSubmitTallyRejectsEnvelopesOverVoters(t *testing.T) {
	store := newTestStore()
	service := newTallyService(store)
	ctx := context.Background()

	sub := submission()
	sub.ElectorsVoted = 200
	sub.EnvelopesReceived = 210

	rec, outcome, err := service.SubmitTally(ctx, ports.SubmitTallyInput{
		Submission: sub,
		OperatorID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, []domain.ErrorKind{domain.ErrKindEnvelopesExceedVoters}, outcome.Errors)

	// Nothing persisted; the table is still pending.
	table, err := store.GetByNumber(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, table.Status)

	_, err = store.GetActa(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrActaNotFound)
}

func TestSubmitTallyUnknownListNoPartialWrite(t *testing.T) {
	store := newTestStore()
	service := newTallyService(store)
	ctx := context.Background()

	sub := submission()
	sub.LocalVotes["UNKNOWN"] = 10

	rec, outcome, err := service.SubmitTally(ctx, ports.SubmitTallyInput{
		Submission: sub,
		OperatorID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Contains(t, outcome.Errors, domain.ErrKindUnknownOrIneligibleList)

	// The valid entries in the same map must not have been written.
	lines, err := store.ListVotesForTable(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestSubmitTallyUnknownTable(t *testing.T) {
	store := newTestStore()
	service := newTallyService(store)

	sub := submission()
	sub.TableNumber = 999

	rec, outcome, err := service.SubmitTally(context.Background(), ports.SubmitTallyInput{
		Submission: sub,
		OperatorID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Contains(t, outcome.Errors, domain.ErrKindTableNotFound)
}

func TestSubmitTallyResubmissionReplacesLines(t *testing.T) {
	store := newTestStore()
	service := newTallyService(store)
	ctx := context.Background()
	operatorID := uuid.New()

	_, outcome, err := service.SubmitTally(ctx, ports.SubmitTallyInput{
		Submission: submission(),
		OperatorID: operatorID,
	})
	require.NoError(t, err)
	require.True(t, outcome.OK())

	// Resubmit omitting POTENCIA entirely: its prior lines must vanish.
	sub := submission()
	sub.LocalVotes = map[string]int{"FUERZA PATRIA": 120}
	sub.ProvincialVotes = map[string]int{"FUERZA PATRIA": 150}

	_, outcome, err = service.SubmitTally(ctx, ports.SubmitTallyInput{
		Submission: sub,
		OperatorID: operatorID,
	})
	require.NoError(t, err)
	require.True(t, outcome.OK())

	lines, err := store.ListVotesForTable(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.NotEqual(t, int64(2), line.ListID)
		assert.NotEqual(t, int64(4), line.ListID)
	}
}

func TestSubmitTallyReplaceIsIdempotent(t *testing.T) {
	store := newTestStore()
	service := newTallyService(store)
	ctx := context.Background()
	operatorID := uuid.New()

	input := ports.SubmitTallyInput{Submission: submission(), OperatorID: operatorID}

	_, _, err := service.SubmitTally(ctx, input)
	require.NoError(t, err)
	first, err := store.ListVotesForTable(ctx, 1)
	require.NoError(t, err)

	_, _, err = service.SubmitTally(ctx, input)
	require.NoError(t, err)
	second, err := store.ListVotesForTable(ctx, 1)
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)

	acta, err := store.GetActa(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 200, acta.ElectorsVoted)
	assert.Equal(t, 5, acta.Difference)
}

func TestSubmitTallyZeroCountsOmitted(t *testing.T) {
	store := newTestStore()
	service := newTallyService(store)
	ctx := context.Background()

	sub := submission()
	sub.LocalVotes = map[string]int{"FUERZA PATRIA": 50, "POTENCIA": 0}
	sub.ProvincialVotes = map[string]int{}

	_, outcome, err := service.SubmitTally(ctx, ports.SubmitTallyInput{
		Submission: sub,
		OperatorID: uuid.New(),
	})
	require.NoError(t, err)
	require.True(t, outcome.OK())

	lines, err := store.ListVotesForTable(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ListID)
}

func TestSubmitTallyWriteConflict(t *testing.T) {
	store := newTestStore()
	store.LockTimeout = 20 * time.Millisecond
	service := newTallyService(store)
	ctx := context.Background()

	release, err := store.LockTable(ctx, 1)
	require.NoError(t, err)
	defer release()

	_, _, err = service.SubmitTally(ctx, ports.SubmitTallyInput{
		Submission: submission(),
		OperatorID: uuid.New(),
	})
	assert.ErrorIs(t, err, domain.ErrWriteConflict)
}

// Concurrent resubmissions of the same table must serialize: whatever
// distribution wins, the stored lines always sum within the stored
// acta's envelope bound.
func TestSubmitTallyConcurrentSameTable(t *testing.T) {
	store := newTestStore()
	service := newTallyService(store)
	ctx := context.Background()

	const writers = 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sub := submission()
			sub.LocalVotes = map[string]int{"FUERZA PATRIA": 50 + n, "POTENCIA": 40}
			sub.ProvincialVotes = map[string]int{"FUERZA PATRIA": 60, "POTENCIA": 50 + n}

			_, outcome, err := service.SubmitTally(ctx, ports.SubmitTallyInput{
				Submission: sub,
				OperatorID: uuid.New(),
			})
			if err == nil && outcome.OK() {
				successCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(writers), successCount.Load())

	acta, err := store.GetActa(ctx, 1)
	require.NoError(t, err)
	lines, err := store.ListVotesForTable(ctx, 1)
	require.NoError(t, err)

	assert.LessOrEqual(t, categorySum(t, store, lines, domain.CategoryLocal), acta.EnvelopesReceived)
	assert.LessOrEqual(t, categorySum(t, store, lines, domain.CategoryProvincial), acta.EnvelopesReceived)
}

func categorySum(t *testing.T, store *memory.Store, lines []domain.VoteLine, category domain.Category) int {
	t.Helper()
	cat, err := store.GetCatalog(context.Background())
	require.NoError(t, err)

	sum := 0
	for _, line := range lines {
		list, ok := cat.ByID(line.ListID)
		require.True(t, ok)
		if list.Category == category {
			sum += line.Count
		}
	}
	return sum
}
