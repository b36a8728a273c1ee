package classifier

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanhakim/catatduit/internal/category"
	"github.com/arkanhakim/catatduit/internal/common"
	"github.com/arkanhakim/catatduit/internal/kv"
	"github.com/arkanhakim/catatduit/internal/model"
)

// stubModel returns scripted responses in order and counts calls.
type stubModel struct {
	responses []string
	err       error
	calls     int
}

func (s *stubModel) Generate(_ context.Context, _, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	idx := s.calls - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

// fakeStore is an in-memory Store keyed by (name, userID).
type fakeStore struct {
	categories map[string]*model.Category
	nextID     int64
	failWith   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{categories: make(map[string]*model.Category)}
}

func (f *fakeStore) FindOrCreateCategory(_ context.Context, name, icon string, userID *int64) (*model.Category, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	key := name
	if userID != nil {
		key = name + "#user"
	}
	if cat, ok := f.categories[key]; ok {
		return cat, nil
	}
	f.nextID++
	cat := &model.Category{ID: f.nextID, Name: name, Icon: icon, UserID: userID}
	f.categories[key] = cat
	return cat, nil
}

func (f *fakeStore) GetCategories(_ context.Context, userID *int64) ([]model.Category, error) {
	var out []model.Category
	for _, cat := range f.categories {
		out = append(out, *cat)
	}
	return out, nil
}

func newTestCategorizer(t *testing.T, client ModelClient, store Store) *Categorizer {
	t.Helper()
	cache := NewCache(kv.NewMemoryStore(time.Hour), time.Hour)
	c := NewCategorizer(cache, client, store, slog.Default())
	c.retry = common.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
	return c
}

func TestCategorizeTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("keyword short-circuit skips the model", func(t *testing.T) {
		stub := &stubModel{responses: []string{"Makanan"}}
		c := newTestCategorizer(t, stub, newFakeStore())

		cat, err := c.CategorizeTransaction(ctx, "zakat fitrah ramadan", nil)
		require.NoError(t, err)
		assert.Equal(t, "Zakat", cat.Name)
		assert.Zero(t, stub.calls)
	})

	t.Run("model answer is cleaned and cached", func(t *testing.T) {
		stub := &stubModel{responses: []string{`"Transportasi".`}}
		c := newTestCategorizer(t, stub, newFakeStore())

		cat, err := c.CategorizeTransaction(ctx, "Gojek ke bandara", nil)
		require.NoError(t, err)
		assert.Equal(t, "Transportasi", cat.Name)
		assert.Equal(t, 1, stub.calls)

		// Second identical request comes from the cache.
		cat, err = c.CategorizeTransaction(ctx, "Gojek ke bandara", nil)
		require.NoError(t, err)
		assert.Equal(t, "Transportasi", cat.Name)
		assert.Equal(t, 1, stub.calls)
	})

	t.Run("exhausted models degrade to catch-all without error", func(t *testing.T) {
		stub := &stubModel{err: common.ErrAllModelsExhausted}
		c := newTestCategorizer(t, stub, newFakeStore())

		cat, err := c.CategorizeTransaction(ctx, "Beli sepatu olahraga", nil)
		require.NoError(t, err)
		assert.Equal(t, category.CatchAll, cat.Name)
	})

	t.Run("catch-all answers are not cached", func(t *testing.T) {
		stub := &stubModel{responses: []string{"I really cannot tell what this might be"}}
		c := newTestCategorizer(t, stub, newFakeStore())

		cat, err := c.CategorizeTransaction(ctx, "Transfer misterius 123", nil)
		require.NoError(t, err)
		assert.Equal(t, category.CatchAll, cat.Name)
		assert.Equal(t, 1, stub.calls)

		_, err = c.CategorizeTransaction(ctx, "Transfer misterius 123", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, stub.calls)
	})

	t.Run("blank description resolves to catch-all", func(t *testing.T) {
		stub := &stubModel{responses: []string{"Makanan"}}
		c := newTestCategorizer(t, stub, newFakeStore())

		cat, err := c.CategorizeTransaction(ctx, "   ???  ", nil)
		require.NoError(t, err)
		assert.Equal(t, category.CatchAll, cat.Name)
		assert.Zero(t, stub.calls)
	})

	t.Run("storage failure surfaces as error", func(t *testing.T) {
		stub := &stubModel{responses: []string{"Makanan"}}
		store := newFakeStore()
		store.failWith = errors.New("disk full")
		c := newTestCategorizer(t, stub, store)

		_, err := c.CategorizeTransaction(ctx, "Sarapan bubur ayam", nil)
		assert.Error(t, err)
	})
}

func TestCategorizeTransactionFuzzyCacheHit(t *testing.T) {
	ctx := context.Background()
	stub := &stubModel{responses: []string{"Minuman"}}
	c := newTestCategorizer(t, stub, newFakeStore())

	_, err := c.CategorizeTransaction(ctx, "kopi susu gula aren", nil)
	require.NoError(t, err)
	require.Equal(t, 1, stub.calls)

	// Near-identical phrasing reuses the cached classification.
	cat, err := c.CategorizeTransaction(ctx, "kopi susu gula arena", nil)
	require.NoError(t, err)
	assert.Equal(t, "Minuman", cat.Name)
	assert.Equal(t, 1, stub.calls)
}

func TestBatchCategorizeTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("categorizes every description", func(t *testing.T) {
		stub := &stubModel{responses: []string{"Transportasi"}}
		c := newTestCategorizer(t, stub, newFakeStore())

		results, err := c.BatchCategorizeTransactions(ctx, []string{
			"zakat mal",
			"parkir motor",
			"parkir motor",
		}, nil)
		require.NoError(t, err)

		require.Len(t, results, 2)
		assert.Equal(t, "Zakat", results["zakat mal"].Name)
		assert.Equal(t, "Transportasi", results["parkir motor"].Name)
		// Duplicate description categorized once.
		assert.Equal(t, 1, stub.calls)
	})

	t.Run("persistent failure skips entry, keeps the rest", func(t *testing.T) {
		stub := &stubModel{responses: []string{"Makanan"}}
		store := newFakeStore()
		c := newTestCategorizer(t, stub, store)

		// First description fails both attempts, then the store recovers
		// is not simulated; instead verify the failing entry is absent.
		store.failWith = errors.New("locked")
		results, err := c.BatchCategorizeTransactions(ctx, []string{"ayam geprek"}, nil)
		require.NoError(t, err)
		assert.Empty(t, results)

		store.failWith = nil
		results, err = c.BatchCategorizeTransactions(ctx, []string{"ayam geprek"}, nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Makanan", results["ayam geprek"].Name)
	})
}

func TestClearCache(t *testing.T) {
	ctx := context.Background()
	stub := &stubModel{responses: []string{"Hiburan"}}
	c := newTestCategorizer(t, stub, newFakeStore())

	_, err := c.CategorizeTransaction(ctx, "langganan spotify premium", nil)
	require.NoError(t, err)
	_, err = c.CategorizeTransaction(ctx, "tiket konser akhir tahun", nil)
	require.NoError(t, err)
	require.Equal(t, 2, stub.calls)

	c.ClearCache()

	// Every description must hit the model chain again.
	_, err = c.CategorizeTransaction(ctx, "langganan spotify premium", nil)
	require.NoError(t, err)
	_, err = c.CategorizeTransaction(ctx, "tiket konser akhir tahun", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, stub.calls)
}

func TestExpiredEntryHitsTheModelAgain(t *testing.T) {
	ctx := context.Background()
	stub := &stubModel{responses: []string{"Minuman"}}
	cache := NewCache(kv.NewMemoryStore(time.Hour), 20*time.Millisecond)
	c := NewCategorizer(cache, stub, newFakeStore(), slog.Default())

	_, err := c.CategorizeTransaction(ctx, "jus alpukat segar", nil)
	require.NoError(t, err)
	require.Equal(t, 1, stub.calls)

	// Within the TTL the cache answers.
	_, err = c.CategorizeTransaction(ctx, "jus alpukat segar", nil)
	require.NoError(t, err)
	require.Equal(t, 1, stub.calls)

	time.Sleep(40 * time.Millisecond)

	// Expired entries behave exactly like misses.
	_, err = c.CategorizeTransaction(ctx, "jus alpukat segar", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}

func TestInvalidateDescription(t *testing.T) {
	ctx := context.Background()
	stub := &stubModel{responses: []string{"Hiburan"}}
	c := newTestCategorizer(t, stub, newFakeStore())

	_, err := c.CategorizeTransaction(ctx, "Langganan Netflix", nil)
	require.NoError(t, err)
	require.Equal(t, 1, stub.calls)

	c.InvalidateDescription("Langganan Netflix")

	_, err = c.CategorizeTransaction(ctx, "Langganan Netflix", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}
