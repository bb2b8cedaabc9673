package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/siitkit/faqrag/internal/history"
	"github.com/siitkit/faqrag/internal/lang"
)

type queryRequest struct {
	Question   string   `json:"question"`
	Model      string   `json:"model,omitempty"`
	K          int      `json:"k,omitempty"`
	MinScore   *float64 `json:"min_score,omitempty"`
	UseLexical *bool    `json:"use_lexical,omitempty"`
	ReplyLang  string   `json:"reply_lang,omitempty"`
}

type queryResponse struct {
	Answer        string   `json:"answer"`
	Sentinel      bool     `json:"sentinel"`
	ExpandedQuery string   `json:"expanded_query"`
	Sources       []string `json:"sources"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var body queryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	question := strings.TrimSpace(body.Question)
	if question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	req := s.cfg.Defaults
	req.Question = question
	if body.Model != "" {
		req.Model = body.Model
	}
	if body.K > 0 {
		req.K = body.K
	}
	if body.MinScore != nil {
		req.MinScore = float32(*body.MinScore)
	}
	if body.UseLexical != nil {
		req.UseLexical = *body.UseLexical
	}
	if body.ReplyLang != "" {
		mode := lang.Mode(body.ReplyLang)
		if !lang.Valid(mode) {
			http.Error(w, "invalid reply_lang: must be auto, th, or en", http.StatusBadRequest)
			return
		}
		req.ReplyLang = mode
	}

	result, err := s.pipe.Run(r.Context(), req)
	if err != nil {
		s.record(r, question, "", history.OutcomeError, err.Error())
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	outcome := history.OutcomeAnswered
	if result.Sentinel {
		outcome = history.OutcomeSentinel
	}
	s.record(r, question, result.ExpandedQuery, outcome, result.Answer)

	var sources []string
	for _, d := range result.Outcome.Docs() {
		sources = append(sources, d.Metadata.SourceLine())
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Answer:        result.Answer,
		Sentinel:      result.Sentinel,
		ExpandedQuery: result.ExpandedQuery,
		Sources:       sources,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "query history is disabled", http.StatusNotFound)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// record logs a served query; history failures must not fail the
// request.
func (s *Server) record(r *http.Request, question, expanded string, outcome history.Outcome, answer string) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(r.Context(), history.Entry{
		Question:      question,
		ExpandedQuery: expanded,
		Outcome:       outcome,
		Answer:        answer,
	}); err != nil {
		log.Printf("recording query history: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}
