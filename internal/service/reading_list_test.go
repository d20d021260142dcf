package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	domainerrors "github.com/musaddiq-rafi/boipoka.ai-sub000/internal/errors"
)

func setupReadingListService(t *testing.T) *ReadingListService {
	t.Helper()
	return NewReadingListService(setupTestStore(t), testLogger())
}

func day(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestReadingListService_AddLifecycleRules(t *testing.T) {
	svc := setupReadingListService(t)
	owner := newUserID()

	tests := []struct {
		name    string
		req     AddItemRequest
		wantMsg string
	}{
		{
			name:    "reading without start",
			req:     AddItemRequest{VolumeID: "v1", Status: "reading"},
			wantMsg: domain.MsgStartedAtRequired,
		},
		{
			name:    "completed without dates",
			req:     AddItemRequest{VolumeID: "v2", Status: "completed", StartedAt: day("2025-01-01")},
			wantMsg: domain.MsgCompletedDatesNeed,
		},
		{
			name:    "completed before started",
			req:     AddItemRequest{VolumeID: "X", Status: "completed", StartedAt: day("2025-06-01"), CompletedAt: day("2025-05-01")},
			wantMsg: domain.MsgCompletedBeforeFrom,
		},
		{
			name:    "unknown status",
			req:     AddItemRequest{VolumeID: "v3", Status: "abandoned"},
			wantMsg: `invalid status "abandoned": must be interested, reading, or completed`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem(context.Background(), owner, tt.req)
			require.ErrorIs(t, err, domainerrors.ErrValidation)
			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantMsg, domainErr.Message)
		})
	}

	list, err := svc.ListMine(context.Background(), owner, "", 1)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestReadingListService_DuplicateVolume(t *testing.T) {
	svc := setupReadingListService(t)
	ctx := context.Background()
	owner := newUserID()

	first, err := svc.AddItem(ctx, owner, AddItemRequest{VolumeID: "vol-1", Status: "interested"})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, owner, AddItemRequest{VolumeID: "vol-1", Status: "reading", StartedAt: day("2025-02-01")})
	require.ErrorIs(t, err, domainerrors.ErrConflict)

	stored, err := svc.GetItem(ctx, owner, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInterested, stored.Status)

	// Another user may track the same volume.
	_, err = svc.AddItem(ctx, newUserID(), AddItemRequest{VolumeID: "vol-1", Status: "interested"})
	assert.NoError(t, err)
}

func TestReadingListService_ConcurrentDuplicateYieldsOne(t *testing.T) {
	svc := setupReadingListService(t)
	ctx := context.Background()
	owner := newUserID()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for range workers {
		wg.Go(func() {
			_, err := svc.AddItem(ctx, owner, AddItemRequest{VolumeID: "race", Status: "interested"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case domainerrors.Is(err, domainerrors.ErrConflict):
				conflicts++
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)

	list, err := svc.ListMine(ctx, owner, "", 1)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestReadingListService_PartialUpdates(t *testing.T) {
	svc := setupReadingListService(t)
	ctx := context.Background()
	owner := newUserID()

	item, err := svc.AddItem(ctx, owner, AddItemRequest{
		VolumeID:    "vol-1",
		Status:      "reading",
		StartedAt:   day("2025-01-10"),
		CompletedAt: day("2025-02-01"),
	})
	require.NoError(t, err)

	// Status alone succeeds because stored dates are consistent.
	done, err := svc.UpdateItem(ctx, owner, item.ID, UpdateItemRequest{Status: ptr("completed")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status)
	assert.Equal(t, *day("2025-01-10"), *done.StartedAt)

	// Moving completedAt before the stored startedAt fails on the merged record.
	_, err = svc.UpdateItem(ctx, owner, item.ID, UpdateItemRequest{
		CompletedAt: domain.Some(*day("2025-01-01")),
	})
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	// Clearing startedAt while completed is rejected.
	_, err = svc.UpdateItem(ctx, owner, item.ID, UpdateItemRequest{StartedAt: domain.Null[time.Time]()})
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	// Back to interested with both dates cleared.
	reset, err := svc.UpdateItem(ctx, owner, item.ID, UpdateItemRequest{
		Status:      ptr("interested"),
		StartedAt:   domain.Null[time.Time](),
		CompletedAt: domain.Null[time.Time](),
	})
	require.NoError(t, err)
	assert.Nil(t, reset.StartedAt)
	assert.Nil(t, reset.CompletedAt)

	stored, err := svc.GetItem(ctx, owner, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInterested, stored.Status)
	assert.Nil(t, stored.StartedAt)
}

func TestReadingListService_Visibility(t *testing.T) {
	svc := setupReadingListService(t)
	ctx := context.Background()
	alice, bob := newUserID(), newUserID()

	pub, err := svc.AddItem(ctx, alice, AddItemRequest{VolumeID: "pub", Status: "interested"})
	require.NoError(t, err)
	priv, err := svc.AddItem(ctx, alice, AddItemRequest{VolumeID: "priv", Status: "interested", Visibility: "private"})
	require.NoError(t, err)

	_, err = svc.GetItem(ctx, bob, priv.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	_, err = svc.GetItem(ctx, bob, pub.ID)
	assert.NoError(t, err)

	// A user's list by id is public-only, even for the owner.
	own, err := svc.ListForUser(ctx, alice, 1)
	require.NoError(t, err)
	require.Len(t, own.Items, 1)
	assert.Equal(t, "pub", own.Items[0].VolumeID)

	mine, err := svc.ListMine(ctx, alice, "", 1)
	require.NoError(t, err)
	assert.Len(t, mine.Items, 2)

	_, err = svc.ListForUser(ctx, "bogus", 1)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestReadingListService_StatusFilterAndOwnership(t *testing.T) {
	svc := setupReadingListService(t)
	ctx := context.Background()
	alice, bob := newUserID(), newUserID()

	item, err := svc.AddItem(ctx, alice, AddItemRequest{VolumeID: "a", Status: "interested"})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, alice, AddItemRequest{VolumeID: "b", Status: "reading", StartedAt: day("2025-03-01")})
	require.NoError(t, err)

	reading, err := svc.ListMine(ctx, alice, "reading", 1)
	require.NoError(t, err)
	require.Len(t, reading.Items, 1)
	assert.Equal(t, "b", reading.Items[0].VolumeID)

	_, err = svc.ListMine(ctx, alice, "nope", 1)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.UpdateItem(ctx, bob, item.ID, UpdateItemRequest{Status: ptr("interested")})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.ErrorIs(t, svc.RemoveItem(ctx, bob, item.ID), domainerrors.ErrForbidden)

	require.NoError(t, svc.RemoveItem(ctx, alice, item.ID))
	_, err = svc.GetItem(ctx, alice, item.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
