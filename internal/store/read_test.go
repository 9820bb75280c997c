package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"binderscope/internal/catalog"
)

func seedCatalog(t *testing.T, s *Store) map[string]int64 {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.ResetSchema(ctx))

	inserted, err := s.InsertServices(ctx, []catalog.DeviceService{
		{Name: "mount", Project: "android.os.storage.IMountService"},
		{Name: "activity", Project: "android.app.IActivityManager"},
		{Name: "SurfaceFlinger"},
	})
	require.NoError(t, err)

	ids := map[string]int64{}
	for _, svc := range inserted {
		ids[svc.Name] = svc.ID
	}

	// Extraction file order is not numeric order
	require.NoError(t, s.InsertTransactions(ctx, ids["activity"], []catalog.Transaction{
		{Number: 3, MethodName: "startActivity", Arguments: "Landroid/content/Intent;", Returns: "I"},
		{Number: 1, MethodName: "unhandledBack", Arguments: "", Returns: "V"},
		{Number: 2, MethodName: "finishActivity", Arguments: "Landroid/os/IBinder;", Returns: "Z"},
	}))

	return ids
}

func TestListServices_OrderByName(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	seedCatalog(t, s)

	services, err := s.ListServices(ctx, true)
	require.NoError(t, err)
	require.Len(t, services, 3)
	require.Equal(t, "SurfaceFlinger", services[0].Name)
	require.Equal(t, "activity", services[1].Name)
	require.Equal(t, "mount", services[2].Name)
}

func TestListServices_InsertOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	seedCatalog(t, s)

	services, err := s.ListServices(ctx, false)
	require.NoError(t, err)
	require.Equal(t, "mount", services[0].Name)
	require.Equal(t, "activity", services[1].Name)
}

func TestListServices_Restartable(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	seedCatalog(t, s)

	first, err := s.ListServices(ctx, true)
	require.NoError(t, err)

	// A re-issued query reflects current state
	_, err = s.InsertServices(ctx, []catalog.DeviceService{{Name: "zygote"}})
	require.NoError(t, err)

	second, err := s.ListServices(ctx, true)
	require.NoError(t, err)
	require.Len(t, second, len(first)+1)
}

func TestFindServiceByName(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	seedCatalog(t, s)

	svc, err := s.FindServiceByName(ctx, "activity")
	require.NoError(t, err)
	require.Equal(t, "android.app.IActivityManager", svc.Project)

	native, err := s.FindServiceByName(ctx, "SurfaceFlinger")
	require.NoError(t, err)
	require.Empty(t, native.Project)

	_, err = s.FindServiceByName(ctx, "nosuch")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListTransactionsForService_Orderings(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	ids := seedCatalog(t, s)

	byNumber, err := s.ListTransactionsForService(ctx, ids["activity"], true)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, numbers(byNumber))

	fileOrder, err := s.ListTransactionsForService(ctx, ids["activity"], false)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 1, 2}, numbers(fileOrder))
}

func TestListTransactionsForService_EmptyNotNil(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	ids := seedCatalog(t, s)

	txns, err := s.ListTransactionsForService(ctx, ids["SurfaceFlinger"], true)
	require.NoError(t, err)
	require.NotNil(t, txns)
	require.Empty(t, txns)
}

func TestBuildMeta_NeverBuilt(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.BuildMeta(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}

func numbers(txns []catalog.Transaction) []int64 {
	out := make([]int64, len(txns))
	for i, t := range txns {
		out[i] = t.Number
	}
	return out
}
