package server

import (
	"encoding/json"
	"net/http"

	"github.com/arkanhakim/catatduit/internal/chat"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"error":   msg,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Message == "" {
		writeBadRequest(w, "message is required")
		return
	}
	if req.UserID == 0 {
		writeBadRequest(w, "user_id is required")
		return
	}

	resp, err := s.chat.GenerateChatResponse(r.Context(), req)
	if err != nil {
		// Only context cancellation reaches here; the client is gone.
		s.logger.Warn("chat request aborted", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type categorizeRequest struct {
	Description string `json:"description"`
	UserID      *int64 `json:"user_id,omitempty"`
}

type categorizeResponse struct {
	Category *categoryPayload `json:"category,omitempty"`
	Error    string           `json:"error,omitempty"`
	Success  bool             `json:"success"`
}

type categoryPayload struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	ID   int64  `json:"id"`
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Description == "" {
		writeBadRequest(w, "description is required")
		return
	}

	cat, err := s.categorizer.CategorizeTransaction(r.Context(), req.Description, req.UserID)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		s.logger.Error("categorization failed", "error", err)
		writeJSON(w, http.StatusOK, categorizeResponse{
			Success: false,
			Error:   "categorization is temporarily unavailable",
		})
		return
	}

	writeJSON(w, http.StatusOK, categorizeResponse{
		Success: true,
		Category: &categoryPayload{
			ID:   cat.ID,
			Name: cat.Name,
			Icon: cat.Icon,
		},
	})
}

// handleCacheClear drops every cached classification so corrected
// category assignments are not resurrected from stale entries.
func (s *Server) handleCacheClear(w http.ResponseWriter, _ *http.Request) {
	clearer, ok := s.categorizer.(CacheClearer)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"error":   "classification cache is not clearable",
		})
		return
	}

	clearer.ClearCache()
	s.logger.Info("classification cache cleared")
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleConversationStarters(w http.ResponseWriter, r *http.Request) {
	starters := s.chat.GetConversationStarters(r.URL.Query().Get("context"), nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"starters": starters,
	})
}
