// Package grading scores a submission against the private answer key of a track.
package grading

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mind-engage/skillassist/internal/skill"
)

// Unanswered marks a question the student skipped. It never matches a key.
const Unanswered = -1

// Answer is one (questionId, optionIndex) pair of a submission.
type Answer struct {
	QuestionID  string `json:"questionId"`
	OptionIndex int    `json:"optionIndex"`
}

// UnmarshalJSON treats a missing or null optionIndex as Unanswered rather than 0.
func (a *Answer) UnmarshalJSON(b []byte) error {
	var raw struct {
		QuestionID  string `json:"questionId"`
		OptionIndex *int   `json:"optionIndex"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	a.QuestionID = raw.QuestionID
	a.OptionIndex = Unanswered
	if raw.OptionIndex != nil {
		a.OptionIndex = *raw.OptionIndex
	}
	return nil
}

type Submission []Answer

// Outcome is the result of scoring one submission.
type Outcome struct {
	Score      int         `json:"score"`
	Total      int         `json:"total"`
	Percentage float64     `json:"percentage"`
	Level      skill.Level `json:"level"`
}

// AnswerKeys is the part of the question bank the engine reads.
type AnswerKeys interface {
	AnswerKey(track skill.Track) (map[string]int, error)
}

type Engine struct {
	keys AnswerKeys
}

func NewEngine(keys AnswerKeys) *Engine { return &Engine{keys: keys} }

// Score counts the bank questions answered correctly. The total is taken from the
// bank on every call. Answers for ids not in the bank are ignored, and when an id
// is answered more than once the last answer counts.
func (e *Engine) Score(track skill.Track, sub Submission) (Outcome, error) {
	if !track.Valid() {
		return Outcome{}, fmt.Errorf("grading: %w: %q", skill.ErrUnknownTrack, track)
	}
	key, err := e.keys.AnswerKey(track)
	if err != nil {
		return Outcome{}, err
	}

	chosen := make(map[string]int, len(sub))
	for _, a := range sub {
		chosen[a.QuestionID] = a.OptionIndex
	}

	out := Outcome{Total: len(key)}
	for id, correct := range key {
		if pick, ok := chosen[id]; ok && isCorrect(pick, correct) {
			out.Score++
		}
	}
	// The band comes from the exact ratio; rounding is for display only.
	out.Percentage = Percentage(out.Score, out.Total)
	out.Level = skill.LevelFor(ratio(out.Score, out.Total))
	return out, nil
}

func isCorrect(pick, correct int) bool {
	if pick == Unanswered || pick < 0 {
		return false
	}
	return pick == correct
}

func ratio(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

// Percentage is 100*score/total rounded to two decimals; 0 when total is 0.
func Percentage(score, total int) float64 {
	return math.Round(ratio(score, total)*100) / 100
}
