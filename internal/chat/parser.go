package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arkanhakim/catatduit/internal/common"
	"github.com/arkanhakim/catatduit/internal/llm"
	"github.com/arkanhakim/catatduit/internal/model"
)

// ErrUnparseableResponse means the model ignored the strict-JSON
// instruction and answered with prose. The caller asks the user to
// rephrase instead of failing hard.
var ErrUnparseableResponse = errors.New("model response was not valid JSON")

// ModelClient generates a completion from a system and user prompt.
type ModelClient interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// CurrencyStore resolves user currencies and provisions the IDR default.
type CurrencyStore interface {
	GetCurrency(ctx context.Context, userID int64, code string) (*model.Currency, error)
	CreateDefaultCurrency(ctx context.Context, userID int64) (*model.Currency, error)
}

// currencyAliases maps what users actually type to ISO-ish codes.
var currencyAliases = map[string]string{
	"rp":     "IDR",
	"rp.":    "IDR",
	"rupiah": "IDR",
	"idr":    "IDR",
	"perak":  "IDR",
	"usd":    "USD",
	"dollar": "USD",
	"dolar":  "USD",
	"$":      "USD",
}

// Parser extracts transaction candidates from a chat message with one
// model call followed by defensive local validation.
type Parser struct {
	client ModelClient
	store  CurrencyStore
	logger *slog.Logger
	now    func() time.Time
}

// NewParser creates a parser over the given model client and currency store.
func NewParser(client ModelClient, store CurrencyStore, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		client: client,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// rawCandidate mirrors the JSON shape the model is instructed to emit.
// Amount stays raw because models return both numbers and strings.
type rawCandidate struct {
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Amount      json.RawMessage `json:"amount"`
}

// Parse extracts zero or more transaction candidates from message. A
// model response that is not a JSON array yields ErrUnparseableResponse
// so the caller can ask the user to rephrase; an empty JSON array means
// the message simply held no transactions.
func (p *Parser) Parse(ctx context.Context, message string, userID int64) ([]model.ParsedCandidate, error) {
	now := p.now()

	raw, err := p.client.Generate(ctx, parserSystemPrompt(now), message)
	if err != nil {
		return nil, fmt.Errorf("intent extraction failed: %w", err)
	}

	cleaned := llm.CleanMarkdownWrapper(raw)

	var decoded []rawCandidate
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		p.logger.Warn("model returned non-JSON intent response",
			"response", truncate(cleaned, 200),
			"error", err)
		return nil, ErrUnparseableResponse
	}

	candidates := make([]model.ParsedCandidate, 0, len(decoded))
	for _, rc := range decoded {
		cand, ok := p.validate(ctx, rc, userID, now)
		if !ok {
			continue
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// validate turns one decoded element into a candidate, dropping elements
// without a description and leaving amount/currency unset when unreadable.
func (p *Parser) validate(ctx context.Context, rc rawCandidate, userID int64, now time.Time) (model.ParsedCandidate, bool) {
	desc := strings.TrimSpace(rc.Description)
	if desc == "" {
		return model.ParsedCandidate{}, false
	}

	cand := model.ParsedCandidate{
		Description: desc,
		Date:        ResolveDate(rc.Date, now),
		Type:        model.TypeOutcome,
	}
	if strings.EqualFold(rc.Type, string(model.TypeIncome)) {
		cand.Type = model.TypeIncome
	}

	if amount, ok := ParseAmount(rc.Amount); ok {
		cand.Amount = &amount
	}

	if token := strings.TrimSpace(rc.Currency); token != "" {
		cand.RawCurrency = token
		if code, ok := p.resolveCurrency(ctx, token, userID); ok {
			cand.CurrencyCode = &code
		}
	}

	return cand, true
}

// resolveCurrency maps the user's token through the alias table and checks
// the user actually has that currency, auto-provisioning IDR on first use.
func (p *Parser) resolveCurrency(ctx context.Context, token string, userID int64) (string, bool) {
	code, ok := currencyAliases[strings.ToLower(token)]
	if !ok {
		upper := strings.ToUpper(token)
		if len(upper) != 3 {
			return "", false
		}
		code = upper
	}

	if _, err := p.store.GetCurrency(ctx, userID, code); err == nil {
		return code, true
	} else if !errors.Is(err, common.ErrNotFound) {
		p.logger.Warn("currency lookup failed", "code", code, "error", err)
		return "", false
	}

	if code == "IDR" {
		if _, err := p.store.CreateDefaultCurrency(ctx, userID); err != nil {
			p.logger.Warn("failed to provision default currency", "error", err)
			return "", false
		}
		return code, true
	}
	return "", false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
