package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/skillassist/internal/dataset"
	"github.com/mind-engage/skillassist/internal/skill"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Len(t, c.All(), 12)

	for _, tr := range skill.Tracks() {
		for _, lv := range skill.Levels() {
			got := c.Filter(tr, lv)
			assert.Len(t, got, 2, "%s/%s", tr, lv)
			for _, co := range got {
				assert.Equal(t, tr, co.Track)
				assert.Equal(t, lv, co.Difficulty)
			}
		}
	}
}

func TestFilterKeepsCatalogOrder(t *testing.T) {
	c, err := Load([]byte(`
courses:
  - {id: b, title: B, platform: p, url: u, track: ml, difficulty: Beginner}
  - {id: x, title: X, platform: p, url: u, track: webdev, difficulty: Beginner}
  - {id: a, title: A, platform: p, url: u, track: ml, difficulty: Beginner}
  - {id: z, title: Z, platform: p, url: u, track: ml, difficulty: Advanced}
`))
	require.NoError(t, err)

	var ids []string
	for _, co := range c.Filter(skill.TrackML, skill.Beginner) {
		ids = append(ids, co.ID)
	}
	assert.Equal(t, []string{"b", "a"}, ids)
	assert.Empty(t, c.Filter(skill.TrackWebDev, skill.Advanced))
	assert.Len(t, c.Filter(skill.TrackML, ""), 3)
	assert.Len(t, c.Filter("", ""), 4)
}

func TestAllReturnsCopy(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	all := c.All()
	all[0].Title = "changed"
	assert.NotEqual(t, "changed", c.All()[0].Title)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad difficulty", `courses: [{id: a, title: A, platform: p, url: u, track: ml, difficulty: Expert}]`},
		{"missing url", `courses: [{id: a, title: A, platform: p, track: ml, difficulty: Beginner}]`},
		{"unknown track", `courses: [{id: a, title: A, platform: p, url: u, track: design, difficulty: Beginner}]`},
		{"duplicate id", `courses: [{id: a, title: A, platform: p, url: u, track: ml, difficulty: Beginner}, {id: a, title: B, platform: p, url: u, track: ml, difficulty: Beginner}]`},
		{"not yaml", `courses: [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			assert.Error(t, err)
		})
	}

	_, err := Load([]byte(`courses: [{id: a, title: A, platform: p, url: u, track: ml, difficulty: Expert}]`))
	assert.True(t, dataset.IsValidationError(err))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`courses: [{id: a, title: A, platform: p, url: u, track: webdev, difficulty: Intermediate}]`), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, c.Filter(skill.TrackWebDev, skill.Intermediate), 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultDocs(t *testing.T) {
	d, err := DefaultDocs()
	require.NoError(t, err)
	require.NotEmpty(t, d.Categories)
	for _, cat := range d.Categories {
		assert.NotEmpty(t, cat.ID)
		assert.NotEmpty(t, cat.Items, cat.ID)
	}
}
