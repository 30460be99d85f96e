package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mind-engage/skillassist/internal/auth"
	"github.com/mind-engage/skillassist/internal/students"
)

type StudentStore interface {
	Register(ctx context.Context, reg students.Registration) (students.Student, error)
	Verify(ctx context.Context, email, password string) (students.Student, error)
	Get(ctx context.Context, id string) (students.Student, error)
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
}

type TokenIssuer interface {
	Issue(studentID string) (string, time.Time, error)
}

func RegisterHandler(st StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req students.Registration
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		s, err := st.Register(r.Context(), req)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, s)
	}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Student     students.Student `json:"student"`
}

func LoginHandler(st StudentStore, tokens TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		s, err := st.Verify(r.Context(), req.Email, req.Password)
		if err != nil {
			fail(w, r, err)
			return
		}
		tok, exp, err := tokens.Issue(s.ID)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, loginResp{AccessToken: tok, TokenType: "bearer", ExpiresAt: exp, Student: s})
	}
}

func MeHandler(st StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := st.Get(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func ChangePasswordHandler(st StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changePasswordReq
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		err := st.ChangePassword(r.Context(), auth.SubjectFromContext(r.Context()), req.OldPassword, req.NewPassword)
		switch {
		case errors.Is(err, students.ErrInvalidCredentials):
			// The bearer token is still good; only the old password was wrong.
			writeError(w, http.StatusForbidden, "incorrect old password")
		case err != nil:
			fail(w, r, err)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}
