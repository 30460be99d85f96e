package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/mind-engage/skillassist/internal/auth"
	"github.com/mind-engage/skillassist/internal/catalog"
	"github.com/mind-engage/skillassist/internal/skill"
)

type Recommender interface {
	Recommend(ctx context.Context, studentID string) (map[skill.Track][]catalog.Course, error)
}

func RecommendationsHandler(rec Recommender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := rec.Recommend(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /courses?track=ml&level=Beginner; both filters optional.
func CoursesHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var track skill.Track
		var level skill.Level
		if v := strings.TrimSpace(r.URL.Query().Get("track")); v != "" {
			t, err := skill.ParseTrack(v)
			if err != nil {
				fail(w, r, err)
				return
			}
			track = t
		}
		if v := strings.TrimSpace(r.URL.Query().Get("level")); v != "" {
			l, err := skill.ParseLevel(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "unknown level")
				return
			}
			level = l
		}
		writeJSON(w, http.StatusOK, cat.Filter(track, level))
	}
}

func DocsHandler(docs *catalog.Docs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, docs)
	}
}
