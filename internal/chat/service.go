package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/arkanhakim/catatduit/internal/category"
	"github.com/arkanhakim/catatduit/internal/model"
)

const (
	// historyWindow is how many prior turns are replayed to the model.
	historyWindow = 5

	promptMissingAmount   = "Berapa jumlahnya?"
	promptMissingCurrency = "Mata uang apa yang dipakai?"

	apologyMessage  = "Maaf, saya sedang mengalami gangguan. Silakan coba lagi sebentar lagi ya."
	rephraseMessage = `Maaf, saya kurang paham maksudnya. Coba tulis ulang ya, misalnya: "Makan siang 25 ribu".`

	// ActionTransactionsCreated signals the UI to refresh the transaction list.
	ActionTransactionsCreated = "transactions_created"
	// ActionClarificationNeeded signals that candidates await user input.
	ActionClarificationNeeded = "clarification_needed"
)

// Store is the persistence surface the chat service needs.
type Store interface {
	category.Store
	SaveTransaction(ctx context.Context, txn *model.Transaction) error
}

// Message is one turn of visible chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one incoming chat turn.
type Request struct {
	ContextData map[string]any `json:"context_data,omitempty"`
	Message     string         `json:"message"`
	Context     string         `json:"context,omitempty"`
	History     []Message      `json:"history,omitempty"`
	UserID      int64          `json:"user_id"`
}

// PendingTransaction describes a candidate that could not be persisted yet
// and the questions that would complete it.
type PendingTransaction struct {
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Prompts     []string `json:"prompts"`
}

// Response is the structured chat reply. Failures inside the subsystem
// surface here with Success=false, never as a transport-level error.
type Response struct {
	Message             string               `json:"message"`
	Action              string               `json:"action,omitempty"`
	PendingTransactions []PendingTransaction `json:"pending_transactions,omitempty"`
	Success             bool                 `json:"success"`
}

// Service orchestrates one chat turn: parse, persist what is complete,
// ask about what is not, and fall back to plain conversation when the
// message holds no transactions.
type Service struct {
	parser   *Parser
	store    Store
	resolver *category.Resolver
	client   ModelClient
	logger   *slog.Logger
}

// NewService wires the chat service.
func NewService(parser *Parser, store Store, client ModelClient, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		parser:   parser,
		store:    store,
		resolver: category.NewResolver(store, logger),
		client:   client,
		logger:   logger,
	}
}

// GenerateChatResponse handles one user message end to end. Every failure
// mode returns a well-formed Response; the error return is reserved for
// context cancellation.
func (s *Service) GenerateChatResponse(ctx context.Context, req Request) (*Response, error) {
	candidates, err := s.parser.Parse(ctx, req.Message, req.UserID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, ErrUnparseableResponse) {
			return &Response{Success: false, Message: rephraseMessage}, nil
		}
		s.logger.Error("chat parse failed", "error", err)
		return &Response{Success: false, Message: apologyMessage}, nil
	}

	if len(candidates) == 0 {
		return s.converse(ctx, req)
	}

	var created []string
	var failed []string
	var pending []PendingTransaction

	for _, cand := range candidates {
		if !cand.Complete() {
			pending = append(pending, PendingTransaction{
				Description: cand.Description,
				Date:        cand.Date.Format("2006-01-02"),
				Prompts:     clarificationPrompts(cand),
			})
			continue
		}

		txn, err := s.persistCandidate(ctx, cand, req.UserID)
		if err != nil {
			// Report this candidate's failure and keep going with the rest.
			s.logger.Error("failed to save transaction from chat",
				"description", cand.Description,
				"error", err)
			failed = append(failed, fmt.Sprintf("Gagal menyimpan %q: %v", cand.Description, err))
			continue
		}
		created = append(created, fmt.Sprintf("%s — %s %s (%s)",
			txn.Description,
			txn.Amount.StringFixed(0),
			txn.CurrencyCode,
			txn.Date.Format("2006-01-02")))
	}

	resp := &Response{
		Success:             len(failed) == 0,
		Message:             composeMessage(created, failed, pending),
		PendingTransactions: pending,
	}
	switch {
	case len(created) > 0:
		resp.Action = ActionTransactionsCreated
	case len(pending) > 0:
		resp.Action = ActionClarificationNeeded
	}
	return resp, nil
}

// persistCandidate creates the transaction. Descriptions hitting the
// deterministic keyword rules are categorized on the spot; everything else
// is left pending for the background categorizer.
func (s *Service) persistCandidate(ctx context.Context, cand model.ParsedCandidate, userID int64) (*model.Transaction, error) {
	txn := &model.Transaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		Description:  cand.Description,
		Amount:       *cand.Amount,
		CurrencyCode: *cand.CurrencyCode,
		Date:         cand.Date,
		Type:         cand.Type,
		Status:       model.StatusPending,
	}

	if name, ok := category.MatchSpecial(cand.Description); ok {
		cat, err := s.resolver.Resolve(ctx, name, &userID)
		if err == nil {
			txn.CategoryID = &cat.ID
			txn.Status = model.StatusCompleted
		} else {
			s.logger.Warn("keyword categorization failed, leaving pending", "error", err)
		}
	}

	if err := s.store.SaveTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// clarificationPrompts builds the per-field questions for an incomplete
// candidate. An unrecognized currency token is named explicitly; a missing
// one gets the generic question.
func clarificationPrompts(cand model.ParsedCandidate) []string {
	var prompts []string
	if cand.MissingAmount() {
		prompts = append(prompts, promptMissingAmount)
	}
	if cand.MissingCurrency() {
		if cand.RawCurrency != "" {
			prompts = append(prompts, fmt.Sprintf("Mata uang %q tidak saya kenali. Mata uang apa yang dipakai?", cand.RawCurrency))
		} else {
			prompts = append(prompts, promptMissingCurrency)
		}
	}
	return prompts
}

// composeMessage renders the turn outcome as one Indonesian reply.
func composeMessage(created, failed []string, pending []PendingTransaction) string {
	var b strings.Builder

	if len(created) == 1 {
		b.WriteString("Dicatat: " + created[0])
	} else if len(created) > 1 {
		b.WriteString("Dicatat:\n")
		for _, line := range created {
			b.WriteString("- " + line + "\n")
		}
	}

	for _, f := range failed {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f)
	}

	for _, p := range pending {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Untuk %q saya masih butuh info:\n", p.Description)
		for _, q := range p.Prompts {
			b.WriteString("- " + q + "\n")
		}
	}

	return strings.TrimSpace(b.String())
}

// converse answers a message that carried no transactions, feeding back
// the last turns of visible history.
func (s *Service) converse(ctx context.Context, req Request) (*Response, error) {
	history := req.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	var b strings.Builder
	for _, k := range sortedKeys(req.ContextData) {
		fmt.Fprintf(&b, "[%s: %v]\n", k, req.ContextData[k])
	}
	for _, m := range history {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	b.WriteString("user: " + req.Message)

	reply, err := s.client.Generate(ctx, chatSystemPrompt(req.Context), b.String())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Error("chat reply failed", "error", err)
		return &Response{Success: false, Message: apologyMessage}, nil
	}
	return &Response{Success: true, Message: strings.TrimSpace(reply)}, nil
}

// GetConversationStarters returns suggested first messages for a context.
func (s *Service) GetConversationStarters(chatContext string, _ map[string]any) []string {
	if starters, ok := conversationStarters[chatContext]; ok {
		out := make([]string, len(starters))
		copy(out, starters)
		return out
	}
	out := make([]string, len(defaultStarters))
	copy(out, defaultStarters)
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
