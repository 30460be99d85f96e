// Package recommend maps a student's latest levels onto the course catalog.
package recommend

import (
	"context"

	"github.com/mind-engage/skillassist/internal/catalog"
	"github.com/mind-engage/skillassist/internal/results"
	"github.com/mind-engage/skillassist/internal/skill"
)

type LevelSource interface {
	LatestAll(ctx context.Context, studentID string) (results.Levels, error)
}

type Engine struct {
	levels  LevelSource
	catalog *catalog.Catalog
}

func NewEngine(levels LevelSource, cat *catalog.Catalog) *Engine {
	return &Engine{levels: levels, catalog: cat}
}

// Recommend returns, for every track, the courses whose difficulty equals the
// student's latest level on it. A track never attempted counts as Beginner.
func (e *Engine) Recommend(ctx context.Context, studentID string) (map[skill.Track][]catalog.Course, error) {
	levels, err := e.levels.LatestAll(ctx, studentID)
	if err != nil {
		return nil, err
	}
	out := make(map[skill.Track][]catalog.Course, len(skill.Tracks()))
	for _, tr := range skill.Tracks() {
		out[tr] = e.catalog.Filter(tr, levels.Level(tr))
	}
	return out, nil
}
