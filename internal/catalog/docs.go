package catalog

import (
	_ "embed"

	"github.com/mind-engage/skillassist/internal/dataset"
	"github.com/mind-engage/skillassist/internal/skill"
)

//go:embed docs.yaml
var defaultDocs []byte

type DocItem struct {
	ID      string      `yaml:"id" json:"id"`
	Title   string      `yaml:"title" json:"title"`
	Track   skill.Track `yaml:"track" json:"track"`
	Content string      `yaml:"content" json:"content"`
	Code    string      `yaml:"code,omitempty" json:"code,omitempty"`
}

type DocCategory struct {
	ID    string    `yaml:"id" json:"id"`
	Title string    `yaml:"title" json:"title"`
	Items []DocItem `yaml:"items" json:"items"`
}

type Docs struct {
	Categories []DocCategory `yaml:"categories" json:"categories"`
}

var docsSchema = dataset.MustSchema("docs", `{
  "type": "object",
  "required": ["categories"],
  "properties": {
    "categories": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title", "items"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "items": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "title", "content"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "title": {"type": "string"},
                "track": {"type": "string"},
                "content": {"type": "string"},
                "code": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`)

func LoadDocs(data []byte) (*Docs, error) {
	var d Docs
	if err := docsSchema.Decode(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DefaultDocs returns the docs compiled into the binary.
func DefaultDocs() (*Docs, error) { return LoadDocs(defaultDocs) }
