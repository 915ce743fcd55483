package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlexZav1327/currency-converter/internal/kvstore"
	"github.com/AlexZav1327/currency-converter/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store is down")

type mockKV struct {
	mock.Mock
}

func (m *mockKV) Get(ctx context.Context, namespace, key string) (string, error) {
	args := m.Called(ctx, namespace, key)

	return args.String(0), args.Error(1)
}

func (m *mockKV) Put(ctx context.Context, namespace, key, value string) error {
	args := m.Called(ctx, namespace, key, value)

	return args.Error(0)
}

func newLoaded(t *testing.T, kv kvstore.Store) *Store {
	t.Helper()

	store := New(kv, logrus.StandardLogger())
	require.NoError(t, store.Load(context.Background()))

	return store
}

func TestLoadSeedsOnce(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()

	store := newLoaded(t, kv)
	require.Equal(t, seedRecords, store.List())

	for range seedRecords {
		_, err := store.RemoveAt(ctx, 0)
		require.NoError(t, err)
	}

	require.Empty(t, store.List())

	reloaded := newLoaded(t, kv)
	require.Empty(t, reloaded.List())
}

func TestAppendIsNewestFirst(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Put(ctx, Namespace, SeededKey, "true"))

	store := newLoaded(t, kv)

	r1 := models.HistoryRecord{FromCode: "USD", ToCode: "EUR", FromAmount: 100, ToAmount: 92, Date: "Today, 9:00 AM"}
	r2 := models.HistoryRecord{FromCode: "GBP", ToCode: "JPY", FromAmount: 1, ToAmount: 190.5, Date: "Today, 9:05 AM"}

	require.NoError(t, store.Append(ctx, r1))
	require.NoError(t, store.Append(ctx, r2))

	require.Equal(t, []models.HistoryRecord{r2, r1}, store.List())

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.HistoryRecord{r2, r1}, loaded)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()

	store := newLoaded(t, kv)
	require.NoError(t, store.Append(ctx, models.HistoryRecord{
		FromCode: "CHF", ToCode: "ZAR", FromAmount: 12.34, ToAmount: 256.789, Date: "Today, 11:59 PM",
	}))

	raw, err := kv.Get(ctx, Namespace, HistoryKey)
	require.NoError(t, err)
	require.Contains(t, raw, `"fromCode":"CHF"`)
	require.Contains(t, raw, `"date":"Today, 11:59 PM"`)

	reloaded := newLoaded(t, kv)
	require.Equal(t, store.List(), reloaded.List())
}

func TestRemoveAt(t *testing.T) {
	ctx := context.Background()
	store := newLoaded(t, kvstore.NewMemory())

	removed, err := store.RemoveAt(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, seedRecords[1], removed)
	require.Equal(t, []models.HistoryRecord{seedRecords[0], seedRecords[2]}, store.List())

	_, err = store.RemoveAt(ctx, 2)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = store.RemoveAt(ctx, -1)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	require.Len(t, store.List(), 2)
}

func TestCorruptHistoryDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Put(ctx, Namespace, HistoryKey, `[{"fromCode":`))
	require.NoError(t, kv.Put(ctx, Namespace, SeededKey, "true"))

	store := New(kv, logrus.StandardLogger())

	records, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, records)

	require.NoError(t, store.Load(ctx))
	require.Empty(t, store.List())
}

func TestPersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()

	kv := new(mockKV)
	kv.On("Get", mock.Anything, Namespace, HistoryKey).Return("[]", nil)
	kv.On("Get", mock.Anything, Namespace, SeededKey).Return("true", nil)
	kv.On("Put", mock.Anything, Namespace, HistoryKey, mock.Anything).Return(errStoreDown)

	store := newLoaded(t, kv)

	err := store.Append(ctx, models.HistoryRecord{FromCode: "USD", ToCode: "EUR"})
	require.ErrorIs(t, err, errStoreDown)
	require.Empty(t, store.List())

	kv.AssertExpectations(t)
}

func TestLoadReportsStoreFailure(t *testing.T) {
	kv := new(mockKV)
	kv.On("Get", mock.Anything, Namespace, HistoryKey).Return("", errStoreDown)

	err := New(kv, logrus.StandardLogger()).Load(context.Background())
	require.ErrorIs(t, err, errStoreDown)
}

func TestDateLabel(t *testing.T) {
	at := time.Date(2026, 10, 19, 15, 4, 0, 0, time.UTC)
	require.Equal(t, "Today, 3:04 PM", DateLabel(at))

	at = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	require.Equal(t, "Today, 9:30 AM", DateLabel(at))
}
