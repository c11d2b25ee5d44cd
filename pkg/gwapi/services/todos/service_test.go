package todos

import (
	"context"
	"testing"
	"time"

	"github.com/hasdev/api-gateway/pkg/db/dbtest"
	"github.com/hasdev/api-gateway/pkg/db/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// newTestService returns a service whose clock advances one minute per call.
func newTestService(t *testing.T) (*Service, *bun.DB) {
	t.Helper()
	database := dbtest.New(t)

	for _, id := range []string{"alice", "bob"} {
		_, err := database.NewInsert().Model(&models.Account{
			ID:        id,
			Email:     id + "@example.com",
			CreatedAt: time.Now().UTC(),
		}).Exec(context.Background())
		require.NoError(t, err)
	}

	svc := NewService(database)
	clock := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, database
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	plan := time.Date(2025, 2, 1, 0, 0, 0, 0, time.FixedZone("UTC+7", 7*3600))
	created, err := svc.Create(ctx, "alice", CreateInput{Text: "  Buy groceries ", PlanDate: &plan})
	require.NoError(t, err)
	require.Equal(t, "Buy groceries", created.Text)
	require.False(t, created.IsDone)

	got, err := svc.Get(ctx, "alice", created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Text, got.Text)
	require.NotNil(t, got.PlanDate)
	require.True(t, plan.Equal(*got.PlanDate))
}

func TestCreateRequiresText(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "alice", CreateInput{Text: "   "})
	require.ErrorIs(t, err, ErrEmptyText)
}

func TestOwnerScoping(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	todo, err := svc.Create(ctx, "alice", CreateInput{Text: "private"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "bob", todo.ID)
	require.ErrorIs(t, err, ErrNotFound)

	text := "hijacked"
	_, err = svc.Update(ctx, "bob", todo.ID, UpdateInput{Text: &text})
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, svc.Delete(ctx, "bob", todo.ID), ErrNotFound)

	still, err := svc.Get(ctx, "alice", todo.ID)
	require.NoError(t, err)
	require.Equal(t, "private", still.Text)
}

func TestUpdateBumpsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	plan := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	todo, err := svc.Create(ctx, "alice", CreateInput{Text: "draft", PlanDate: &plan})
	require.NoError(t, err)

	done := true
	updated, err := svc.Update(ctx, "alice", todo.ID, UpdateInput{IsDone: &done, ClearPlanDate: true})
	require.NoError(t, err)
	require.True(t, updated.IsDone)
	require.Equal(t, "draft", updated.Text)
	require.Nil(t, updated.PlanDate)
	require.True(t, updated.UpdatedAt.After(todo.UpdatedAt))

	reloaded, err := svc.Get(ctx, "alice", todo.ID)
	require.NoError(t, err)
	require.True(t, reloaded.IsDone)
	require.Nil(t, reloaded.PlanDate)
	require.True(t, reloaded.CreatedAt.Equal(todo.CreatedAt))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	todo, err := svc.Create(ctx, "alice", CreateInput{Text: "temp"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice", todo.ID))
	require.ErrorIs(t, svc.Delete(ctx, "alice", todo.ID), ErrNotFound)
}

func TestListPaginationAndSort(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	var ids []string
	for _, text := range []string{"one", "two", "three", "four", "five"} {
		todo, err := svc.Create(ctx, "alice", CreateInput{Text: text})
		require.NoError(t, err)
		ids = append(ids, todo.ID)
	}
	_, err := svc.Create(ctx, "bob", CreateInput{Text: "not mine"})
	require.NoError(t, err)

	page, err := svc.List(ctx, "alice", ListQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 5, page.Total)
	require.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Todos, 2)
	// default order is newest first
	require.Equal(t, ids[4], page.Todos[0].ID)
	require.Equal(t, ids[3], page.Todos[1].ID)

	last, err := svc.List(ctx, "alice", ListQuery{Page: 3, Limit: 2, Sort: "createdAt", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, last.Todos, 1)
	require.Equal(t, ids[4], last.Todos[0].ID)

	clamped, err := svc.List(ctx, "alice", ListQuery{Page: 0, Limit: 1000, Sort: "bogus"})
	require.NoError(t, err)
	require.Equal(t, 1, clamped.Page)
	require.Equal(t, 100, clamped.Limit)
	require.Len(t, clamped.Todos, 5)
}
