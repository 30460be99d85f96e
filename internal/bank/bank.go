// Package bank holds the immutable per-track question sets. The correct option of
// every question stays inside this package and the scoring engine; clients only
// ever see PublicQuestion.
package bank

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/mind-engage/skillassist/internal/dataset"
	"github.com/mind-engage/skillassist/internal/skill"
)

// OptionCount is the number of choices every question carries.
const OptionCount = 4

//go:embed questions.yaml
var defaultQuestions []byte

// Question is the private form of a question, including its answer.
type Question struct {
	ID           string      `yaml:"id" json:"id"`
	Track        skill.Track `yaml:"-" json:"track"`
	Prompt       string      `yaml:"question" json:"question"`
	Options      []string    `yaml:"options" json:"options"`
	CorrectIndex int         `yaml:"correct_index" json:"-"`
}

// PublicQuestion is what a student is shown.
type PublicQuestion struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

// Public strips the answer.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{ID: q.ID, Prompt: q.Prompt, Options: append([]string(nil), q.Options...)}
}

// Bank is safe for concurrent use; it is never mutated after New.
type Bank struct {
	sets map[skill.Track][]Question
	keys map[skill.Track]map[string]int
}

// New validates and copies the given question sets. Every known track gets an
// entry, empty if absent from sets.
func New(sets map[skill.Track][]Question) (*Bank, error) {
	b := &Bank{
		sets: make(map[skill.Track][]Question, len(skill.Tracks())),
		keys: make(map[skill.Track]map[string]int, len(skill.Tracks())),
	}
	for tr := range sets {
		if !tr.Valid() {
			return nil, fmt.Errorf("bank: %w: %q", skill.ErrUnknownTrack, tr)
		}
	}
	for _, tr := range skill.Tracks() {
		qs := sets[tr]
		out := make([]Question, 0, len(qs))
		key := make(map[string]int, len(qs))
		for i, q := range qs {
			if q.ID == "" {
				return nil, fmt.Errorf("bank: %s question #%d has no id", tr, i+1)
			}
			if _, dup := key[q.ID]; dup {
				return nil, fmt.Errorf("bank: %s question id %q is not unique", tr, q.ID)
			}
			if len(q.Options) != OptionCount {
				return nil, fmt.Errorf("bank: %s/%s has %d options, want %d", tr, q.ID, len(q.Options), OptionCount)
			}
			if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
				return nil, fmt.Errorf("bank: %s/%s correct index %d out of range", tr, q.ID, q.CorrectIndex)
			}
			q.Track = tr
			q.Options = append([]string(nil), q.Options...)
			out = append(out, q)
			key[q.ID] = q.CorrectIndex
		}
		b.sets[tr] = out
		b.keys[tr] = key
	}
	return b, nil
}

var bankSchema = dataset.MustSchema("question bank", `{
  "type": "object",
  "required": ["tracks"],
  "properties": {
    "tracks": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["id", "question", "options", "correct_index"],
          "properties": {
            "id": {"type": "string", "minLength": 1},
            "question": {"type": "string", "minLength": 1},
            "options": {"type": "array", "minItems": 4, "maxItems": 4, "items": {"type": "string"}},
            "correct_index": {"type": "integer", "minimum": 0, "maximum": 3}
          }
        }
      }
    }
  }
}`)

// Load builds a bank from a YAML dataset.
func Load(data []byte) (*Bank, error) {
	var doc struct {
		Tracks map[skill.Track][]Question `yaml:"tracks"`
	}
	if err := bankSchema.Decode(data, &doc); err != nil {
		return nil, err
	}
	return New(doc.Tracks)
}

// LoadFile builds a bank from a YAML file on disk.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bank: read %s: %w", path, err)
	}
	return Load(data)
}

// Default returns the bank compiled into the binary.
func Default() (*Bank, error) { return Load(defaultQuestions) }

// ListQuestions returns the track's questions in bank order, without answers.
func (b *Bank) ListQuestions(track skill.Track) ([]PublicQuestion, error) {
	qs, err := b.set(track)
	if err != nil {
		return nil, err
	}
	out := make([]PublicQuestion, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.Public())
	}
	return out, nil
}

// AnswerKey maps question id to correct option index. For the scoring engine only.
func (b *Bank) AnswerKey(track skill.Track) (map[string]int, error) {
	if !track.Valid() {
		return nil, fmt.Errorf("bank: %w: %q", skill.ErrUnknownTrack, track)
	}
	src := b.keys[track]
	out := make(map[string]int, len(src))
	for id, idx := range src {
		out[id] = idx
	}
	return out, nil
}

// Count is the number of questions currently in the track.
func (b *Bank) Count(track skill.Track) (int, error) {
	qs, err := b.set(track)
	return len(qs), err
}

func (b *Bank) set(track skill.Track) ([]Question, error) {
	if !track.Valid() {
		return nil, fmt.Errorf("bank: %w: %q", skill.ErrUnknownTrack, track)
	}
	return b.sets[track], nil
}

// ErrEmpty is returned by Validate when a track has no questions.
var ErrEmpty = errors.New("bank: track has no questions")

// Validate reports tracks with no questions. The server still starts with an
// empty track (scores become 0 / Beginner), but operators usually want to know.
func (b *Bank) Validate() error {
	for _, tr := range skill.Tracks() {
		if len(b.sets[tr]) == 0 {
			return fmt.Errorf("%w: %s", ErrEmpty, tr)
		}
	}
	return nil
}
