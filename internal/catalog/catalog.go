// Package catalog holds the static course catalog and learning docs.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/mind-engage/skillassist/internal/dataset"
	"github.com/mind-engage/skillassist/internal/skill"
)

//go:embed courses.yaml
var defaultCourses []byte

type Course struct {
	ID         string      `yaml:"id" json:"id"`
	Title      string      `yaml:"title" json:"title"`
	Platform   string      `yaml:"platform" json:"platform"`
	URL        string      `yaml:"url" json:"url"`
	Track      skill.Track `yaml:"track" json:"track"`
	Difficulty skill.Level `yaml:"difficulty" json:"difficulty"`
}

// Catalog is immutable once loaded.
type Catalog struct {
	courses []Course
}

var courseSchema = dataset.MustSchema("course catalog", `{
  "type": "object",
  "required": ["courses"],
  "properties": {
    "courses": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title", "platform", "url", "track", "difficulty"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string", "minLength": 1},
          "platform": {"type": "string"},
          "url": {"type": "string", "minLength": 1},
          "track": {"type": "string"},
          "difficulty": {"enum": ["Beginner", "Intermediate", "Advanced"]}
        }
      }
    }
  }
}`)

// Load parses a YAML catalog. Courses for unknown tracks are rejected so a
// typo in the dataset cannot silently hide a course.
func Load(data []byte) (*Catalog, error) {
	var doc struct {
		Courses []Course `yaml:"courses"`
	}
	if err := courseSchema.Decode(data, &doc); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(doc.Courses))
	for _, c := range doc.Courses {
		if !c.Track.Valid() {
			return nil, fmt.Errorf("catalog: course %s: %w: %q", c.ID, skill.ErrUnknownTrack, c.Track)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("catalog: duplicate course id %s", c.ID)
		}
		seen[c.ID] = true
	}
	return &Catalog{courses: doc.Courses}, nil
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Load(data)
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) { return Load(defaultCourses) }

// All returns every course in catalog order.
func (c *Catalog) All() []Course {
	out := make([]Course, len(c.courses))
	copy(out, c.courses)
	return out
}

// Filter returns courses matching track and difficulty exactly, in catalog
// order. Empty filters match everything.
func (c *Catalog) Filter(track skill.Track, level skill.Level) []Course {
	out := []Course{}
	for _, co := range c.courses {
		if track != "" && co.Track != track {
			continue
		}
		if level != "" && co.Difficulty != level {
			continue
		}
		out = append(out, co)
	}
	return out
}
