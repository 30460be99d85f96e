package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/skillassist/internal/db"
	"github.com/mind-engage/skillassist/internal/grading"
	"github.com/mind-engage/skillassist/internal/skill"
)

type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLStore uses now for submission timestamps; pass time.Now in production.
func NewSQLStore(dbh *sql.DB, now func() time.Time) *SQLStore {
	if now == nil {
		now = time.Now
	}
	return &SQLStore{db: dbh, now: now}
}

const resultCols = `seq,id,student_id,track,score,total,percentage,level,submitted_at`

func (s *SQLStore) Record(ctx context.Context, studentID string, track skill.Track, out grading.Outcome) (Result, error) {
	if !track.Valid() {
		return Result{}, fmt.Errorf("results: %w: %q", skill.ErrUnknownTrack, track)
	}
	r := Result{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		Track:       track,
		Score:       out.Score,
		Total:       out.Total,
		Percentage:  out.Percentage,
		Level:       out.Level,
		SubmittedAt: s.now().UTC(),
	}
	err := db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM students WHERE id=$1`, studentID).Scan(new(int))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnknownStudent
		}
		if err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `INSERT INTO test_results
			(id,student_id,track,score,total,percentage,level,submitted_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING seq`,
			r.ID, r.StudentID, string(r.Track), r.Score, r.Total, r.Percentage, string(r.Level), r.SubmittedAt.UnixNano(),
		).Scan(&r.Seq)
	})
	switch {
	case err == nil:
		return r, nil
	case errors.Is(err, ErrUnknownStudent), db.IsForeignKeyViolation(err):
		return Result{}, fmt.Errorf("results: %w: %q", ErrUnknownStudent, studentID)
	default:
		return Result{}, db.Unavailable(err)
	}
}

func (s *SQLStore) Latest(ctx context.Context, studentID string, track skill.Track) (Result, bool, error) {
	if !track.Valid() {
		return Result{}, false, fmt.Errorf("results: %w: %q", skill.ErrUnknownTrack, track)
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+resultCols+` FROM test_results
		WHERE student_id=$1 AND track=$2
		ORDER BY submitted_at DESC, seq DESC LIMIT 1`, studentID, string(track))
	r, err := scanResult(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Result{}, false, nil
	case err != nil:
		return Result{}, false, db.Unavailable(err)
	}
	return r, true, nil
}

// LatestAll resolves every track in one query: rows arrive newest first, so the
// first row seen per track is its latest.
func (s *SQLStore) LatestAll(ctx context.Context, studentID string) (Levels, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+resultCols+` FROM test_results
		WHERE student_id=$1
		ORDER BY submitted_at DESC, seq DESC`, studentID)
	if err != nil {
		return nil, db.Unavailable(err)
	}
	defer rows.Close()

	levels := emptyLevels()
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, db.Unavailable(err)
		}
		if cur, known := levels[r.Track]; known && cur == nil {
			levels[r.Track] = &r
		}
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err)
	}
	return levels, nil
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Result, error) {
	var where []string
	var args []any
	if opts.StudentID != "" {
		args = append(args, opts.StudentID)
		where = append(where, fmt.Sprintf("student_id=$%d", len(args)))
	}
	if opts.Track != "" {
		if !opts.Track.Valid() {
			return nil, fmt.Errorf("results: %w: %q", skill.ErrUnknownTrack, opts.Track)
		}
		args = append(args, string(opts.Track))
		where = append(where, fmt.Sprintf("track=$%d", len(args)))
	}
	q := `SELECT ` + resultCols + ` FROM test_results`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY submitted_at DESC, seq DESC`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
		if opts.Offset > 0 {
			args = append(args, opts.Offset)
			q += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, db.Unavailable(err)
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, db.Unavailable(err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (Result, error) {
	var r Result
	var track, level string
	var submitted int64
	if err := sc.Scan(&r.Seq, &r.ID, &r.StudentID, &track, &r.Score, &r.Total, &r.Percentage, &level, &submitted); err != nil {
		return Result{}, err
	}
	r.Track = skill.Track(track)
	r.Level = skill.Level(level)
	r.SubmittedAt = time.Unix(0, submitted).UTC()
	return r, nil
}
