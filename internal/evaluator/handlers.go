// Package evaluator implements the local mock evaluation server.
// This file contains the HTTP handlers.
package evaluator

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/satchel-dev/satchel/internal/sre"
)

// notifyRequest is the deployment notification body accepted by the
// /evaluate endpoints.
type notifyRequest struct {
	SHA      string `json:"sha"`
	PagesURL string `json:"pages_url"`
}

// validate checks the notification for a usable SHA and an absolute URL.
func (n *notifyRequest) validate() string {
	if n.SHA == "" {
		return "sha is required"
	}
	if n.PagesURL == "" {
		return "pages_url is required"
	}
	u, err := url.Parse(n.PagesURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "pages_url must be an absolute URL"
	}
	return ""
}

// handleHealth answers GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "satchel-evaluator",
		"time":    s.store.Stamp(),
	})
}

// handleListResults answers GET /results with stored result file names.
func (s *Server) handleListResults(w http.ResponseWriter, _ *http.Request) {
	names, err := s.store.List()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list results")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list results"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": names})
}

// handleEvaluate answers POST /evaluate/{kind} with a canned evaluation
// for the notified deployment and persists the result.
func (s *Server) handleEvaluate(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req notifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.metrics.RequestErrorsTotal.WithLabelValues("bad_json").Inc()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if msg := req.validate(); msg != "" {
			s.metrics.RequestErrorsTotal.WithLabelValues("invalid_payload").Inc()
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": msg})
			return
		}

		result := buildResult(kind, req)
		saved, err := s.store.Save(result)
		if err != nil {
			s.logger.Error().Err(err).Str("kind", string(kind)).Msg("failed to save result")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save result"})
			return
		}

		s.metrics.EvaluationsTotal.WithLabelValues(string(kind)).Inc()
		s.logger.Info().
			Str("kind", string(kind)).
			Str("sha", req.SHA).
			Int("score", result.Score).
			Msg("evaluation recorded")

		writeJSON(w, http.StatusOK, map[string]any{
			"ok":    true,
			"saved": saved,
			"score": result.Score,
		})
	}
}

// buildResult fills in the canned evaluation for the given kind.
func buildResult(kind Kind, req notifyRequest) *Result {
	result := &Result{Kind: kind, SHA: req.SHA, PagesURL: req.PagesURL}

	switch kind {
	case KindStatic:
		result.Checks = []Check{
			{Name: "license_present", Pass: true},
			{Name: "secret_scan", Pass: true},
			{Name: "readme_present", Pass: true},
		}
		result.Score = 3
	case KindDynamic:
		result.Metrics = map[string]int{
			"lcp_ms":      1400,
			"status_code": 200,
		}
		result.Score = 5
	case KindLLM:
		result.Rubric = []RubricItem{
			{Criterion: "readability", Score: 4},
			{Criterion: "structure", Score: 4},
			{Criterion: "docs_quality", Score: 3},
		}
		for _, item := range result.Rubric {
			result.Score += item.Score
		}
	}
	return result
}

// handleVerify answers POST /verify by running the configured envelope
// verifier against the request body.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	raw, err := sre.DecodeEnvelope(r.Body)
	if err != nil {
		s.metrics.RequestErrorsTotal.WithLabelValues("bad_json").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	res := s.verifier.Verify(raw)
	outcome := "rejected"
	if res.OK {
		outcome = "accepted"
	}
	s.metrics.VerificationsTotal.WithLabelValues(outcome).Inc()
	s.logger.Info().Bool("ok", res.OK).Str("reason", res.Reason).Msg("envelope verified")

	writeJSON(w, http.StatusOK, res)
}

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
