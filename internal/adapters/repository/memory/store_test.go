package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

func record(tableNumber int) *domain.TallyRecord {
	return &domain.TallyRecord{
		TableNumber:       tableNumber,
		ElectorsVoted:     100,
		EnvelopesReceived: 95,
		OperatorID:        uuid.New(),
		SubmittedAt:       time.Now(),
	}
}

func TestCommitTallyBlockedByHeldLock(t *testing.T) {
	store := NewStore()
	store.SeedTables(1)
	store.LockTimeout = 20 * time.Millisecond

	release, err := store.LockTable(context.Background(), 1)
	require.NoError(t, err)

	err = store.CommitTally(context.Background(), record(1), nil)
	assert.ErrorIs(t, err, domain.ErrWriteConflict)

	// Once the holder releases, the same commit goes through.
	release()
	err = store.CommitTally(context.Background(), record(1), nil)
	require.NoError(t, err)

	table, err := store.GetByNumber(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, table.Status)
}

func TestCommitTallyContextCanceled(t *testing.T) {
	store := NewStore()
	store.SeedTables(1)

	release, err := store.LockTable(context.Background(), 1)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = store.CommitTally(ctx, record(1), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCommitTallyReplacesLines(t *testing.T) {
	store := NewStore()
	store.SeedTables(1)
	store.SeedLists([]domain.CandidateList{
		{ID: 1, Name: "A", Category: domain.CategoryLocal, Rank: 1, Active: true},
		{ID: 2, Name: "B", Category: domain.CategoryLocal, Rank: 2, Active: true},
	})
	ctx := context.Background()

	err := store.CommitTally(ctx, record(1), []domain.VoteLine{
		{TableNumber: 1, ListID: 1, Count: 40},
		{TableNumber: 1, ListID: 2, Count: 30},
	})
	require.NoError(t, err)

	err = store.CommitTally(ctx, record(1), []domain.VoteLine{
		{TableNumber: 1, ListID: 2, Count: 80},
	})
	require.NoError(t, err)

	lines, err := store.ListVotesForTable(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ListID)
	assert.Equal(t, 80, lines[0].Count)
}

func TestCommitTallyUnknownTable(t *testing.T) {
	store := NewStore()

	err := store.CommitTally(context.Background(), record(7), nil)
	assert.ErrorIs(t, err, domain.ErrTableNotFound)
}

func TestListPagination(t *testing.T) {
	store := NewStore()
	store.SeedTables(7)
	ctx := context.Background()

	tables, total, err := store.List(ctx, ports.ListTablesFilter{Limit: 3, Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, tables, 3)
	assert.Equal(t, 4, tables[0].Number)

	// Offset past the end yields an empty page, not an error.
	tables, total, err = store.List(ctx, ports.ListTablesFilter{Limit: 3, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Empty(t, tables)
}
