package task

import (
	"context"
	"testing"
	"time"

	domain "github.com/ekoc03/pokedex/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTask(t *testing.T, repo *GormRepository, owner uint, status domain.Status, due time.Time) *domain.Task {
	t.Helper()
	task := &domain.Task{
		Title:       "task",
		Description: "description",
		Status:      status,
		DueDate:     due,
		UserID:      owner,
	}
	require.NoError(t, repo.Create(context.Background(), task))
	return task
}

func TestGormRepository_CreateAndFind(t *testing.T) {
	repo := NewGormRepository(setupTestDB(t))
	ctx := context.Background()

	created := seedTask(t, repo, 3, domain.StatusPending, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, found.Title)
	assert.Equal(t, uint(3), found.UserID)

	_, err = repo.FindByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormRepository_ListOrderAndFilters(t *testing.T) {
	repo := NewGormRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

	seedTask(t, repo, 1, domain.StatusDone, base.AddDate(0, 0, 3))
	seedTask(t, repo, 2, domain.StatusPending, base.AddDate(0, 0, 1))
	seedTask(t, repo, 1, domain.StatusPending, base.AddDate(0, 0, -2))
	seedTask(t, repo, 2, domain.StatusDone, base)

	filters := []Filter{
		{},
		{Status: domain.StatusPending},
		{OwnerID: 1},
		{OwnerID: 2, Status: domain.StatusDone},
	}
	wantCounts := []int{4, 2, 2, 1}

	for i, filter := range filters {
		tasks, err := repo.List(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, tasks, wantCounts[i])

		for j := 1; j < len(tasks); j++ {
			assert.False(t, tasks[j].DueDate.Before(tasks[j-1].DueDate), "filter %+v not ordered by due date", filter)
		}
		for _, task := range tasks {
			if filter.OwnerID != 0 {
				assert.Equal(t, filter.OwnerID, task.UserID)
			}
			if filter.Status != "" {
				assert.Equal(t, filter.Status, task.Status)
			}
		}
	}
}

func TestGormRepository_ListEmpty(t *testing.T) {
	repo := NewGormRepository(setupTestDB(t))

	tasks, err := repo.List(context.Background(), Filter{OwnerID: 42})
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestGormRepository_UpdateAndDelete(t *testing.T) {
	repo := NewGormRepository(setupTestDB(t))
	ctx := context.Background()

	task := seedTask(t, repo, 1, domain.StatusPending, time.Now().UTC())
	task.Status = domain.StatusInProgress
	require.NoError(t, repo.Update(ctx, task))

	found, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, found.Status)

	require.NoError(t, repo.Delete(ctx, task.ID))
	assert.ErrorIs(t, repo.Delete(ctx, task.ID), ErrNotFound)
}
