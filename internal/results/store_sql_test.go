package results

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/skillassist/internal/db"
	"github.com/mind-engage/skillassist/internal/grading"
	"github.com/mind-engage/skillassist/internal/skill"
	"github.com/mind-engage/skillassist/internal/students"
)

// stepClock advances by step on every call.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })
	return dbh
}

func addStudent(t *testing.T, dbh *sql.DB, email string) string {
	t.Helper()
	id, err := addStudentErr(dbh, email)
	require.NoError(t, err)
	return id
}

func addStudentErr(dbh *sql.DB, email string) (string, error) {
	st, err := students.NewStore(dbh, students.WithCost(bcrypt.MinCost)).Register(context.Background(), students.Registration{
		Name: "Ravi", Email: email, Password: "pw", Branch: "ECE", Semester: "3",
	})
	return st.ID, err
}

func outcome(score int) grading.Outcome {
	p := grading.Percentage(score, 10)
	return grading.Outcome{Score: score, Total: 10, Percentage: p, Level: skill.LevelFor(p)}
}

func TestRecordAndLatest(t *testing.T) {
	ctx := context.Background()
	dbh := openDB(t)
	sid := addStudent(t, dbh, "ravi@example.com")
	clk := &stepClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), step: time.Minute}
	s := NewSQLStore(dbh, clk.now)

	r, err := s.Record(ctx, sid, skill.TrackWebDev, outcome(4))
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, skill.Beginner, r.Level)
	assert.Equal(t, 40.0, r.Percentage)

	got, ok, err := s.Latest(ctx, sid, skill.TrackWebDev)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, r.ID, got.ID)
	assert.True(t, r.SubmittedAt.Equal(got.SubmittedAt))

	_, ok, err = s.Latest(ctx, sid, skill.TrackML)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLatestIsLastRecorded(t *testing.T) {
	ctx := context.Background()
	dbh := openDB(t)
	sid := addStudent(t, dbh, "ravi@example.com")
	clk := &stepClock{t: time.Unix(1_700_000_000, 0), step: time.Second}
	s := NewSQLStore(dbh, clk.now)

	scores := []int{2, 9, 5, 7, 3}
	for _, sc := range scores {
		_, err := s.Record(ctx, sid, skill.TrackML, outcome(sc))
		require.NoError(t, err)
	}

	got, ok, err := s.Latest(ctx, sid, skill.TrackML)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.Score)
	assert.Equal(t, skill.Beginner, got.Level)

	all, err := s.List(ctx, ListOpts{StudentID: sid})
	require.NoError(t, err)
	assert.Len(t, all, len(scores))
}

func TestLatestBreaksTimestampTies(t *testing.T) {
	ctx := context.Background()
	dbh := openDB(t)
	sid := addStudent(t, dbh, "ravi@example.com")
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSQLStore(dbh, func() time.Time { return frozen })

	_, err := s.Record(ctx, sid, skill.TrackWebDev, outcome(9))
	require.NoError(t, err)
	second, err := s.Record(ctx, sid, skill.TrackWebDev, outcome(1))
	require.NoError(t, err)

	got, ok, err := s.Latest(ctx, sid, skill.TrackWebDev)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.ID, got.ID)
}

func TestLatestAll(t *testing.T) {
	ctx := context.Background()
	dbh := openDB(t)
	sid := addStudent(t, dbh, "ravi@example.com")
	other := addStudent(t, dbh, "meera@example.com")
	clk := &stepClock{t: time.Unix(1_700_000_000, 0), step: time.Second}
	s := NewSQLStore(dbh, clk.now)

	levels, err := s.LatestAll(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, levels, len(skill.Tracks()))
	for _, tr := range skill.Tracks() {
		assert.Nil(t, levels[tr], tr)
		assert.Equal(t, skill.Beginner, levels.Level(tr))
	}

	for _, step := range []struct {
		sid   string
		track skill.Track
		score int
	}{
		{sid, skill.TrackWebDev, 3},
		{sid, skill.TrackWebDev, 8},
		{other, skill.TrackML, 10},
		{sid, skill.TrackML, 6},
	} {
		_, err := s.Record(ctx, step.sid, step.track, outcome(step.score))
		require.NoError(t, err)
	}

	levels, err = s.LatestAll(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, levels[skill.TrackWebDev])
	require.NotNil(t, levels[skill.TrackML])
	assert.Equal(t, skill.Advanced, levels.Level(skill.TrackWebDev))
	assert.Equal(t, skill.Intermediate, levels.Level(skill.TrackML))
	assert.Equal(t, 6, levels[skill.TrackML].Score)
}

func TestRecordUnknownStudent(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(openDB(t), nil)

	_, err := s.Record(ctx, "nobody", skill.TrackML, outcome(5))
	assert.ErrorIs(t, err, ErrUnknownStudent)

	all, err := s.List(ctx, ListOpts{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRecordUnknownTrack(t *testing.T) {
	ctx := context.Background()
	dbh := openDB(t)
	sid := addStudent(t, dbh, "ravi@example.com")
	s := NewSQLStore(dbh, nil)

	_, err := s.Record(ctx, sid, skill.Track("datascience"), outcome(5))
	assert.ErrorIs(t, err, skill.ErrUnknownTrack)

	_, _, err = s.Latest(ctx, sid, skill.Track("datascience"))
	assert.ErrorIs(t, err, skill.ErrUnknownTrack)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	dbh := openDB(t)
	a := addStudent(t, dbh, "a@example.com")
	b := addStudent(t, dbh, "b@example.com")
	clk := &stepClock{t: time.Unix(1_700_000_000, 0), step: time.Second}
	s := NewSQLStore(dbh, clk.now)

	for i := 1; i <= 4; i++ {
		_, err := s.Record(ctx, a, skill.TrackWebDev, outcome(i))
		require.NoError(t, err)
	}
	_, err := s.Record(ctx, a, skill.TrackML, outcome(5))
	require.NoError(t, err)
	_, err = s.Record(ctx, b, skill.TrackWebDev, outcome(6))
	require.NoError(t, err)

	tests := []struct {
		name   string
		opts   ListOpts
		scores []int
	}{
		{"all", ListOpts{}, []int{6, 5, 4, 3, 2, 1}},
		{"student", ListOpts{StudentID: b}, []int{6}},
		{"student and track", ListOpts{StudentID: a, Track: skill.TrackWebDev}, []int{4, 3, 2, 1}},
		{"page", ListOpts{StudentID: a, Track: skill.TrackWebDev, Limit: 2, Offset: 1}, []int{3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.opts)
			require.NoError(t, err)
			var scores []int
			for _, r := range got {
				scores = append(scores, r.Score)
			}
			assert.Equal(t, tt.scores, scores)
		})
	}

	_, err = s.List(ctx, ListOpts{Track: "bogus"})
	assert.ErrorIs(t, err, skill.ErrUnknownTrack)
}

func TestClosedDBIsUnavailable(t *testing.T) {
	dbh := openDB(t)
	s := NewSQLStore(dbh, nil)
	require.NoError(t, dbh.Close())

	_, err := s.LatestAll(context.Background(), "x")
	assert.ErrorIs(t, err, db.ErrUnavailable)
}
