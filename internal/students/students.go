// Package students is the credential store: student identities and their
// bcrypt-hashed passwords. Hashes never leave this package.
package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"github.com/mind-engage/skillassist/internal/db"
)

var (
	ErrDuplicateIdentity   = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("incorrect email or password")
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrNotFound            = errors.New("student not found")
)

// Student is the public projection of a stored identity.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Branch    string    `json:"branch"`
	Semester  string    `json:"semester"`
	CreatedAt time.Time `json:"created_at"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Branch   string `json:"branch"`
	Semester string `json:"semester"`
}

type Option func(*Store)

// WithCost sets the bcrypt cost used for new hashes.
func WithCost(cost int) Option { return func(s *Store) { s.cost = cost } }

// WithClock overrides time.Now for created_at stamps.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

type Store struct {
	db    *sql.DB
	cost  int
	now   func() time.Time
	dummy []byte
}

func NewStore(dbh *sql.DB, opts ...Option) *Store {
	s := &Store{db: dbh, cost: bcrypt.DefaultCost, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	// Compared against when the email is unknown so both failure paths cost a hash.
	s.dummy, _ = bcrypt.GenerateFromPassword([]byte("skillassist-dummy-password"), s.cost)
	return s
}

// NormalizeEmail is the form uniqueness and lookups are keyed on.
func NormalizeEmail(email string) string {
	// Casers are stateful; one per call.
	return cases.Fold().String(strings.TrimSpace(email))
}

func (s *Store) Register(ctx context.Context, reg Registration) (Student, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Name == "" {
		return Student{}, fmt.Errorf("%w: name is required", ErrInvalidRegistration)
	}
	if reg.Password == "" {
		return Student{}, fmt.Errorf("%w: password is required", ErrInvalidRegistration)
	}
	if addr, err := mail.ParseAddress(reg.Email); err != nil || addr.Address != reg.Email {
		return Student{}, fmt.Errorf("%w: email is not valid", ErrInvalidRegistration)
	}

	hash, err := s.hash(reg.Password)
	if err != nil {
		return Student{}, err
	}

	st := Student{
		ID:        uuid.NewString(),
		Name:      reg.Name,
		Email:     reg.Email,
		Branch:    strings.TrimSpace(reg.Branch),
		Semester:  strings.TrimSpace(reg.Semester),
		CreatedAt: s.now().UTC(),
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO students
		(id,name,email,email_norm,password_hash,branch,semester,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		st.ID, st.Name, st.Email, NormalizeEmail(st.Email), string(hash), st.Branch, st.Semester, st.CreatedAt.Unix())
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Student{}, ErrDuplicateIdentity
		}
		return Student{}, db.Unavailable(err)
	}
	return st, nil
}

// Verify checks a login. An unknown email and a wrong password are
// indistinguishable to the caller.
func (s *Store) Verify(ctx context.Context, email, password string) (Student, error) {
	var st Student
	var hash string
	var created int64
	err := s.db.QueryRowContext(ctx, `SELECT id,name,email,branch,semester,created_at,password_hash
		FROM students WHERE email_norm=$1`, NormalizeEmail(email)).
		Scan(&st.ID, &st.Name, &st.Email, &st.Branch, &st.Semester, &created, &hash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_ = bcrypt.CompareHashAndPassword(s.dummy, []byte(password))
		return Student{}, ErrInvalidCredentials
	case err != nil:
		return Student{}, db.Unavailable(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Student{}, ErrInvalidCredentials
	}
	st.CreatedAt = time.Unix(created, 0).UTC()
	return st, nil
}

func (s *Store) Get(ctx context.Context, id string) (Student, error) {
	var st Student
	var created int64
	err := s.db.QueryRowContext(ctx, `SELECT id,name,email,branch,semester,created_at
		FROM students WHERE id=$1`, id).
		Scan(&st.ID, &st.Name, &st.Email, &st.Branch, &st.Semester, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, ErrNotFound
		}
		return Student{}, db.Unavailable(err)
	}
	st.CreatedAt = time.Unix(created, 0).UTC()
	return st, nil
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM students WHERE id=$1`, id).Scan(new(int))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, db.Unavailable(err)
	}
	return true, nil
}

// ChangePassword replaces the hash after checking the current password.
func (s *Store) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidRegistration)
	}
	var stored string
	err := s.db.QueryRowContext(ctx, `SELECT password_hash FROM students WHERE id=$1`, id).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return db.Unavailable(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE students SET password_hash=$1 WHERE id=$2`, string(hash), id); err != nil {
		return db.Unavailable(err)
	}
	return nil
}

func (s *Store) hash(password string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password must be at most 72 bytes", ErrInvalidRegistration)
	}
	return h, err
}
