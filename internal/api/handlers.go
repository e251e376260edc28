package api

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/scaletotop/contentengine/internal/domain"
	"github.com/scaletotop/contentengine/internal/humanize"
	"github.com/scaletotop/contentengine/internal/markdown"
	"github.com/scaletotop/contentengine/internal/seo"
)

// ─── Skills ─────────────────────────────────────────────────────────────────

type executeRequest struct {
	UserID string            `json:"user_id"`
	Skill  string            `json:"skill_name"`
	Input  domain.SkillInput `json:"input"`
}

func (s *Server) handleExecuteSkill(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.UserID == "" || req.Skill == "" {
		writeError(w, http.StatusBadRequest, "user_id and skill_name are required")
		return
	}

	outcome, err := s.exec.Execute(r.Context(), req.UserID, req.Skill, req.Input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// skillEntry joins the pricing row with whether an implementation is
// actually registered. Configured-but-unregistered skills are visible so
// admins can spot the mismatch.
type skillEntry struct {
	domain.SkillConfig
	Registered bool `json:"registered"`
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	configs, err := s.db.ListSkillConfigs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	entries := make([]skillEntry, 0, len(configs))
	for _, cfg := range configs {
		entries = append(entries, skillEntry{
			SkillConfig: cfg,
			Registered:  s.registry.Has(cfg.Name),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"skills": entries})
}

// ─── Credits ────────────────────────────────────────────────────────────────

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}
	acct, err := s.db.GetAccount(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	txs, err := s.db.ListTransactions(r.Context(), userID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

// ─── Free Analysis Endpoints ────────────────────────────────────────────────
// These run the local analysis stack directly, outside the metering path.
// No account, no charge, no execution record.

type analyzeSEORequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Content     string      `json:"content"`
	Keyword     string      `json:"keyword"`
	Images      []seo.Image `json:"images,omitempty"`
}

func (s *Server) handleAnalyzeSEO(w http.ResponseWriter, r *http.Request) {
	var req analyzeSEORequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	report := seo.Score(req.Title, req.Description, req.Content, req.Keyword, req.Images)
	writeJSON(w, http.StatusOK, report)
}

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleAnalyzeAI(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	report := humanize.Detect(req.Text)
	writeJSON(w, http.StatusOK, map[string]any{
		"detection":   report,
		"human_score": 100 - report.Score,
	})
}

type humanizeRequest struct {
	Text string `json:"text"`
	// Seed pins the random source for reproducible output. Zero means
	// time-seeded.
	Seed int64 `json:"seed,omitempty"`
}

func (s *Server) handleHumanize(w http.ResponseWriter, r *http.Request) {
	var req humanizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	var h *humanize.Humanizer
	if req.Seed != 0 {
		h = humanize.NewSeeded(req.Seed)
	} else {
		h = humanize.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	writeJSON(w, http.StatusOK, h.Humanize(req.Text))
}

// ─── Sections ───────────────────────────────────────────────────────────────

type splitRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleSplitSections(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	sections := markdown.Split(req.Content)
	writeJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

type joinRequest struct {
	Sections []markdown.Section `json:"sections"`
}

func (s *Server) handleJoinSections(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"content": markdown.Join(req.Sections),
	})
}
