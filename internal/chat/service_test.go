package chat

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanhakim/catatduit/internal/common"
	"github.com/arkanhakim/catatduit/internal/model"
)

// fakeChatStore records saved transactions and serves find-or-create.
type fakeChatStore struct {
	saved      []*model.Transaction
	categories map[string]*model.Category
	nextID     int64
	saveErrFor string
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{categories: make(map[string]*model.Category)}
}

func (f *fakeChatStore) SaveTransaction(_ context.Context, txn *model.Transaction) error {
	if f.saveErrFor != "" && txn.Description == f.saveErrFor {
		return errors.New("database is locked")
	}
	f.saved = append(f.saved, txn)
	return nil
}

func (f *fakeChatStore) FindOrCreateCategory(_ context.Context, name, icon string, userID *int64) (*model.Category, error) {
	if cat, ok := f.categories[name]; ok {
		return cat, nil
	}
	f.nextID++
	cat := &model.Category{ID: f.nextID, Name: name, Icon: icon, UserID: userID}
	f.categories[name] = cat
	return cat, nil
}

func newTestService(parserStub, chatStub *stubModel, store *fakeChatStore) *Service {
	parser := newTestParser(parserStub, newFakeCurrencyStore())
	return NewService(parser, store, chatStub, slog.Default())
}

func TestGenerateChatResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("complete candidate is persisted", func(t *testing.T) {
		parserStub := &stubModel{responses: []string{
			`[{"description":"Makan enak","amount":8000,"currency":"Rp","date":"2026-08-05"}]`,
		}}
		store := newFakeChatStore()
		svc := newTestService(parserStub, &stubModel{}, store)

		resp, err := svc.GenerateChatResponse(ctx, Request{Message: "Makan enak tanggal 5 Rp 8000", UserID: 1})
		require.NoError(t, err)

		assert.True(t, resp.Success)
		assert.Equal(t, ActionTransactionsCreated, resp.Action)
		assert.Contains(t, resp.Message, "Dicatat")
		assert.Contains(t, resp.Message, "Makan enak")
		assert.Empty(t, resp.PendingTransactions)

		require.Len(t, store.saved, 1)
		txn := store.saved[0]
		assert.Equal(t, "Makan enak", txn.Description)
		assert.Equal(t, "8000.00", txn.Amount.StringFixed(2))
		assert.Equal(t, "IDR", txn.CurrencyCode)
		assert.Equal(t, time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC), txn.Date)
		assert.NotEmpty(t, txn.ID)
	})

	t.Run("missing fields trigger the confirmation flow", func(t *testing.T) {
		parserStub := &stubModel{responses: []string{
			`[{"description":"Beli sepatu"}]`,
		}}
		store := newFakeChatStore()
		svc := newTestService(parserStub, &stubModel{}, store)

		resp, err := svc.GenerateChatResponse(ctx, Request{Message: "Beli sepatu", UserID: 1})
		require.NoError(t, err)

		assert.True(t, resp.Success)
		assert.Equal(t, ActionClarificationNeeded, resp.Action)
		assert.Contains(t, resp.Message, promptMissingAmount)
		assert.Contains(t, resp.Message, promptMissingCurrency)
		assert.Empty(t, store.saved)

		require.Len(t, resp.PendingTransactions, 1)
		assert.Equal(t, "Beli sepatu", resp.PendingTransactions[0].Description)
		assert.Len(t, resp.PendingTransactions[0].Prompts, 2)
	})

	t.Run("unrecognized currency token is named in the prompt", func(t *testing.T) {
		parserStub := &stubModel{responses: []string{
			`[{"description":"Oleh-oleh","amount":20,"currency":"dinar langit"}]`,
		}}
		svc := newTestService(parserStub, &stubModel{}, newFakeChatStore())

		resp, err := svc.GenerateChatResponse(ctx, Request{Message: "oleh-oleh 20 dinar langit", UserID: 1})
		require.NoError(t, err)

		assert.Equal(t, ActionClarificationNeeded, resp.Action)
		assert.Contains(t, resp.Message, `"dinar langit"`)
		assert.NotContains(t, resp.Message, promptMissingAmount)
	})

	t.Run("persistence failure does not abort siblings", func(t *testing.T) {
		parserStub := &stubModel{responses: []string{
			`[{"description":"Kopi pagi","amount":15000,"currency":"Rp"},` +
				`{"description":"Parkir","amount":2000,"currency":"Rp"}]`,
		}}
		store := newFakeChatStore()
		store.saveErrFor = "Kopi pagi"
		svc := newTestService(parserStub, &stubModel{}, store)

		resp, err := svc.GenerateChatResponse(ctx, Request{Message: "kopi 15rb, parkir 2rb", UserID: 1})
		require.NoError(t, err)

		assert.False(t, resp.Success)
		assert.Contains(t, resp.Message, "Gagal menyimpan")
		assert.Contains(t, resp.Message, "Kopi pagi")
		assert.Equal(t, ActionTransactionsCreated, resp.Action)

		require.Len(t, store.saved, 1)
		assert.Equal(t, "Parkir", store.saved[0].Description)
	})

	t.Run("keyword descriptions are categorized on the spot", func(t *testing.T) {
		parserStub := &stubModel{responses: []string{
			`[{"description":"Zakat fitrah","amount":50000,"currency":"Rp"}]`,
		}}
		store := newFakeChatStore()
		svc := newTestService(parserStub, &stubModel{}, store)

		_, err := svc.GenerateChatResponse(ctx, Request{Message: "zakat fitrah 50 ribu", UserID: 1})
		require.NoError(t, err)

		require.Len(t, store.saved, 1)
		txn := store.saved[0]
		assert.Equal(t, model.StatusCompleted, txn.Status)
		require.NotNil(t, txn.CategoryID)
		assert.Equal(t, "Zakat", store.categories["Zakat"].Name)
	})

	t.Run("ordinary descriptions stay pending for the background job", func(t *testing.T) {
		parserStub := &stubModel{responses: []string{
			`[{"description":"Beli kado ulang tahun","amount":100000,"currency":"Rp"}]`,
		}}
		store := newFakeChatStore()
		svc := newTestService(parserStub, &stubModel{}, store)

		_, err := svc.GenerateChatResponse(ctx, Request{Message: "beli kado 100rb", UserID: 1})
		require.NoError(t, err)

		require.Len(t, store.saved, 1)
		assert.Equal(t, model.StatusPending, store.saved[0].Status)
		assert.Nil(t, store.saved[0].CategoryID)
	})

	t.Run("non-transaction message gets a conversational reply", func(t *testing.T) {
		parserStub := &stubModel{responses: []string{`[]`}}
		chatStub := &stubModel{responses: []string{"Halo! Ada yang bisa saya bantu catat hari ini?"}}
		svc := newTestService(parserStub, chatStub, newFakeChatStore())

		resp, err := svc.GenerateChatResponse(ctx, Request{
			Message: "halo",
			History: []Message{{Role: "user", Content: "hai"}, {Role: "assistant", Content: "halo!"}},
			UserID:  1,
		})
		require.NoError(t, err)

		assert.True(t, resp.Success)
		assert.Equal(t, "Halo! Ada yang bisa saya bantu catat hari ini?", resp.Message)
		assert.Empty(t, resp.Action)
		assert.Equal(t, 1, chatStub.calls)
	})

	t.Run("prose instead of JSON asks the user to rephrase", func(t *testing.T) {
		parserStub := &stubModel{responses: []string{"Wah, sepertinya kamu beli sepatu ya! Keren!"}}
		chatStub := &stubModel{responses: []string{"Halo, ada yang bisa dibantu?"}}
		store := newFakeChatStore()
		svc := newTestService(parserStub, chatStub, store)

		resp, err := svc.GenerateChatResponse(ctx, Request{Message: "beli sepatu kemarin", UserID: 1})
		require.NoError(t, err)

		assert.False(t, resp.Success)
		assert.Equal(t, rephraseMessage, resp.Message)
		assert.Empty(t, store.saved)
		// The conversational fallback must not fire a second model call.
		assert.Zero(t, chatStub.calls)
	})

	t.Run("model exhaustion yields an apology, not an error", func(t *testing.T) {
		parserStub := &stubModel{err: common.ErrAllModelsExhausted}
		svc := newTestService(parserStub, &stubModel{}, newFakeChatStore())

		resp, err := svc.GenerateChatResponse(ctx, Request{Message: "makan siang 20rb", UserID: 1})
		require.NoError(t, err)

		assert.False(t, resp.Success)
		assert.Equal(t, apologyMessage, resp.Message)
	})
}

func TestGetConversationStarters(t *testing.T) {
	svc := newTestService(&stubModel{}, &stubModel{}, newFakeChatStore())

	starters := svc.GetConversationStarters("transactions", nil)
	assert.NotEmpty(t, starters)
	assert.Contains(t, starters, "Makan siang 25 ribu")

	fallback := svc.GetConversationStarters("settings", nil)
	assert.Equal(t, defaultStarters, fallback)
}
