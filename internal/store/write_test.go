package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"binderscope/internal/catalog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestResetSchema_StampsFreshBuild(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.ResetSchema(ctx))
	first, err := s.BuildMeta(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first.BuildID)

	require.NoError(t, s.ResetSchema(ctx))
	second, err := s.BuildMeta(ctx)
	require.NoError(t, err)

	require.NotEqual(t, first.BuildID, second.BuildID, "reset must stamp a fresh build id")
}

func TestResetSchema_DropsAllRows(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.ResetSchema(ctx))

	inserted, err := s.InsertServices(ctx, []catalog.DeviceService{
		{Name: "activity", Project: "android.app.IActivityManager"},
	})
	require.NoError(t, err)
	require.NoError(t, s.InsertTransactions(ctx, inserted[0].ID, []catalog.Transaction{
		{Number: 1, MethodName: "startActivity", Arguments: "Landroid/content/Intent;", Returns: "I"},
	}))

	require.NoError(t, s.ResetSchema(ctx))

	services, err := s.ListServices(ctx, false)
	require.NoError(t, err)
	require.Empty(t, services)
}

func TestInsertServices_AssignsIDsInOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.ResetSchema(ctx))

	inserted, err := s.InsertServices(ctx, []catalog.DeviceService{
		{Name: "activity", Project: "android.app.IActivityManager"},
		{Name: "SurfaceFlinger"}, // native, no project
		{Name: "mount", Project: "android.os.storage.IMountService"},
	})
	require.NoError(t, err)
	require.Len(t, inserted, 3)

	require.Equal(t, "activity", inserted[0].Name)
	require.True(t, inserted[0].HasProject())
	require.False(t, inserted[1].HasProject())
	require.Less(t, inserted[0].ID, inserted[1].ID)
	require.Less(t, inserted[1].ID, inserted[2].ID)
}

func TestInsertServices_DuplicateNameSurfaced(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.ResetSchema(ctx))

	_, err := s.InsertServices(ctx, []catalog.DeviceService{
		{Name: "activity"},
		{Name: "activity"},
	})
	require.ErrorIs(t, err, ErrDuplicateService)

	// The failed bulk insert must not leave partial rows behind
	services, listErr := s.ListServices(ctx, false)
	require.NoError(t, listErr)
	require.Empty(t, services)
}

func TestInsertTransactions_PreservesDuplicateNumbers(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.ResetSchema(ctx))

	inserted, err := s.InsertServices(ctx, []catalog.DeviceService{
		{Name: "activity", Project: "android.app.IActivityManager"},
	})
	require.NoError(t, err)

	// Duplicate numbers within a service are permitted and preserved
	txns := []catalog.Transaction{
		{Number: 5, MethodName: "first", Arguments: "", Returns: "V"},
		{Number: 5, MethodName: "second", Arguments: "I", Returns: "V"},
	}
	require.NoError(t, s.InsertTransactions(ctx, inserted[0].ID, txns))

	got, err := s.ListTransactionsForService(ctx, inserted[0].ID, false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(5), got[0].Number)
	require.Equal(t, int64(5), got[1].Number)
}

func TestInsertTransactions_EmptyListNoop(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.ResetSchema(ctx))

	require.NoError(t, s.InsertTransactions(ctx, 1, nil))
}
