package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleHome serves the API documentation payload.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Email Validator API",
		"version": "2.0",
		"status":  "running",
		"endpoints": map[string]string{
			"GET /":                "API documentation",
			"GET /health":          "Health check",
			"GET /test":            "Test endpoint",
			"POST /validate":       "Validate single email",
			"POST /validate/batch": "Validate multiple emails",
		},
		"features": []string{
			"Fast validation without DNS timeouts",
			"CORS enabled",
			"Batch processing optimized for 30+ emails",
			"Fallback validation system",
			"AI-generated address detection",
		},
	})
}

// handleHealth serves the health check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "email-validator",
		"version": "2.0",
	})
}

// handleTest validates a small fixed set so deployments can be smoke
// tested from a browser.
func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	testEmails := []string{"test@example.com", "invalid.email", "user@domain.co.uk"}

	results := make([]any, 0, len(testEmails))
	for _, email := range testEmails {
		results = append(results, s.service.ValidateOne(r.Context(), email))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "test_successful",
		"test_results": results,
	})
}

// handleValidate validates a single address.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email json.RawMessage `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == nil || string(req.Email) == "null" {
		writeError(w, http.StatusBadRequest, "Email address is required")
		return
	}

	var email string
	if err := json.Unmarshal(req.Email, &email); err != nil {
		writeError(w, http.StatusBadRequest, "Email must be a valid string")
		return
	}
	if strings.TrimSpace(email) == "" {
		writeError(w, http.StatusBadRequest, "Email address cannot be empty")
		return
	}

	writeJSON(w, http.StatusOK, s.service.ValidateOne(r.Context(), email))
}

// handleValidateBatch validates a list of addresses.
func (s *Server) handleValidateBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Emails    json.RawMessage `json:"emails"`
		BatchSize int             `json:"batch_size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Emails == nil || string(req.Emails) == "null" {
		writeError(w, http.StatusBadRequest, "Emails list is required")
		return
	}

	var emails []string
	if err := json.Unmarshal(req.Emails, &emails); err != nil {
		writeError(w, http.StatusBadRequest, "Emails must be a list")
		return
	}
	if len(emails) == 0 {
		writeError(w, http.StatusBadRequest, "At least one email is required")
		return
	}

	cleaned := make([]string, 0, len(emails))
	for _, email := range emails {
		if trimmed := strings.TrimSpace(email); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		writeError(w, http.StatusBadRequest, "No valid emails found")
		return
	}

	writeJSON(w, http.StatusOK, s.service.ValidateBatch(r.Context(), cleaned, req.BatchSize))
}
