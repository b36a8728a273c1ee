package llm

import (
	"context"
	"net/http"
	"strings"
)

// Request is a single completion request against one concrete model.
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Response carries the model's text plus the raw provider headers, which
// the rate-limit tracker inspects for remaining-quota metadata.
type Response struct {
	Headers http.Header
	Text    string
}

// Client defines the interface for LLM providers.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// CleanMarkdownWrapper strips a Markdown code fence around a model
// response, with or without a language tag.
func CleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if idx := strings.Index(content, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		firstLine := strings.TrimSpace(content[:idx])
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{}[]") {
			content = content[idx+1:]
		}
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	return strings.TrimSpace(content)
}
