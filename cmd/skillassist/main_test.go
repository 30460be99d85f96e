package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/skillassist/internal/db"
	"github.com/mind-engage/skillassist/internal/export"
	"github.com/mind-engage/skillassist/internal/grading"
	"github.com/mind-engage/skillassist/internal/results"
	"github.com/mind-engage/skillassist/internal/skill"
	"github.com/mind-engage/skillassist/internal/students"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBankValidateEmbedded(t *testing.T) {
	out, err := run(t, "bank", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "(embedded): ok")
	assert.Contains(t, out, "webdev")
	assert.Contains(t, out, "10 questions")
}

func TestBankValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tracks:\n  webdev:\n    - id: w1\n      question: q\n      options: [a, b]\n      correct_index: 0\n"), 0o600))
	_, err := run(t, "bank", "validate", "--path", path)
	assert.Error(t, err)
}

func TestMigrateAndExport(t *testing.T) {
	t.Setenv("MODE", "offline")
	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "skillassist.db")

	out, err := run(t, "migrate", "--db-driver", "sqlite", "--db-dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "driver=sqlite")

	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, dsn)
	require.NoError(t, err)
	st, err := students.NewStore(dbh, students.WithCost(bcrypt.MinCost)).Register(ctx, students.Registration{
		Name: "Asha", Email: "asha@example.com", Password: "pw",
	})
	require.NoError(t, err)
	store := results.NewSQLStore(dbh, time.Now)
	for _, tr := range skill.Tracks() {
		_, err := store.Record(ctx, st.ID, tr, grading.Outcome{Score: 5, Total: 10, Percentage: 50, Level: skill.Intermediate})
		require.NoError(t, err)
	}
	require.NoError(t, dbh.Close())

	xlsx := filepath.Join(dir, "out.xlsx")
	out, err = run(t, "results", "export", "--db-dsn", dsn, "--out", xlsx, "--track", "ml")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 1 results")

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.Sheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ml", rows[1][2])
}

func TestExportRequiresOut(t *testing.T) {
	_, err := run(t, "results", "export")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "skillassist")
}
