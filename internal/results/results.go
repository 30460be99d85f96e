// Package results is the append-only log of scored submissions. A student's
// current level for a track is always a query over this log, never a stored field.
package results

import (
	"context"
	"errors"
	"time"

	"github.com/mind-engage/skillassist/internal/grading"
	"github.com/mind-engage/skillassist/internal/skill"
)

var ErrUnknownStudent = errors.New("unknown student")

type Result struct {
	ID          string      `json:"id"`
	StudentID   string      `json:"student_id"`
	Track       skill.Track `json:"track"`
	Score       int         `json:"score"`
	Total       int         `json:"total"`
	Percentage  float64     `json:"percentage"`
	Level       skill.Level `json:"level"`
	SubmittedAt time.Time   `json:"submitted_at"`
	Seq         int64       `json:"-"`
}

// Levels holds the latest result per track. Every known track has a key; a nil
// value means the student has not taken that test yet.
type Levels map[skill.Track]*Result

func emptyLevels() Levels {
	l := make(Levels, len(skill.Tracks()))
	for _, tr := range skill.Tracks() {
		l[tr] = nil
	}
	return l
}

// Level returns the latest level for the track, or Beginner when absent.
func (l Levels) Level(track skill.Track) skill.Level {
	if r := l[track]; r != nil {
		return r.Level
	}
	return skill.Beginner
}

type ListOpts struct {
	StudentID string      // optional
	Track     skill.Track // optional
	Limit     int         // 0 = no limit
	Offset    int
}

type Store interface {
	Record(ctx context.Context, studentID string, track skill.Track, out grading.Outcome) (Result, error)
	Latest(ctx context.Context, studentID string, track skill.Track) (Result, bool, error)
	LatestAll(ctx context.Context, studentID string) (Levels, error)
	List(ctx context.Context, opts ListOpts) ([]Result, error)
}
