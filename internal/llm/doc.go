// Package llm provides provider clients and the rate-limit-aware
// multi-model fallback used for categorization and chat.
package llm
