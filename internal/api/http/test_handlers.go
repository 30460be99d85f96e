package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/skillassist/internal/auth"
	"github.com/mind-engage/skillassist/internal/bank"
	"github.com/mind-engage/skillassist/internal/grading"
	"github.com/mind-engage/skillassist/internal/results"
	"github.com/mind-engage/skillassist/internal/skill"
)

type QuestionLister interface {
	ListQuestions(track skill.Track) ([]bank.PublicQuestion, error)
}

type Scorer interface {
	Score(track skill.Track, sub grading.Submission) (grading.Outcome, error)
}

// ListQuestionsHandler serves GET /tests/{track}. Answer keys never leave the bank.
func ListQuestionsHandler(b QuestionLister) http.HandlerFunc {
	type resp struct {
		Track     skill.Track           `json:"track"`
		Questions []bank.PublicQuestion `json:"questions"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		track, err := skill.ParseTrack(chi.URLParam(r, "track"))
		if err != nil {
			fail(w, r, err)
			return
		}
		qs, err := b.ListQuestions(track)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp{Track: track, Questions: qs})
	}
}

type submitReq struct {
	Answers grading.Submission `json:"answers"`
}

type submitResp struct {
	ID          string      `json:"id"`
	Track       skill.Track `json:"track"`
	Score       int         `json:"score"`
	Total       int         `json:"total"`
	Percentage  float64     `json:"percentage"`
	Level       skill.Level `json:"level"`
	Message     string      `json:"message"`
	SubmittedAt time.Time   `json:"submitted_at"`
}

// SubmitHandler scores a submission and appends it to the result log.
func SubmitHandler(scorer Scorer, store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		track, err := skill.ParseTrack(chi.URLParam(r, "track"))
		if err != nil {
			fail(w, r, err)
			return
		}
		var req submitReq
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		out, err := scorer.Score(track, req.Answers)
		if err != nil {
			fail(w, r, err)
			return
		}
		res, err := store.Record(r.Context(), auth.SubjectFromContext(r.Context()), track, out)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, submitResp{
			ID:          res.ID,
			Track:       res.Track,
			Score:       res.Score,
			Total:       res.Total,
			Percentage:  res.Percentage,
			Level:       res.Level,
			Message:     res.Level.Message(),
			SubmittedAt: res.SubmittedAt,
		})
	}
}

type LevelReader interface {
	LatestAll(ctx context.Context, studentID string) (results.Levels, error)
}

type trackLevel struct {
	Level      skill.Level `json:"level"`
	Percentage float64     `json:"percentage"`
}

// LevelsHandler returns every track, with null for tracks never attempted.
func LevelsHandler(store LevelReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		levels, err := store.LatestAll(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			fail(w, r, err)
			return
		}
		out := make(map[skill.Track]*trackLevel, len(skill.Tracks()))
		for _, tr := range skill.Tracks() {
			out[tr] = nil
			if res := levels[tr]; res != nil {
				out[tr] = &trackLevel{Level: res.Level, Percentage: res.Percentage}
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /tests/{track}/history?limit=20&offset=0
func HistoryHandler(store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		track, err := skill.ParseTrack(chi.URLParam(r, "track"))
		if err != nil {
			fail(w, r, err)
			return
		}
		limit := parseIntDefault(r.URL.Query().Get("limit"), 20)
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := max(parseIntDefault(r.URL.Query().Get("offset"), 0), 0)

		list, err := store.List(r.Context(), results.ListOpts{
			StudentID: auth.SubjectFromContext(r.Context()),
			Track:     track,
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
