package httpapi

import (
	"net/http"
	"time"

	"github.com/nihil-template/nihil-auth/internal/server/models"
)

type accountPayload struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	ProfileImage *string    `json:"profileImage"`
	Bio          *string    `json:"bio"`
	LastLoginAt  *time.Time `json:"lastLoginAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toAccountPayload(a *models.Account) accountPayload {
	return accountPayload{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		Role:         string(a.Role),
		ProfileImage: a.ProfileImage,
		Bio:          a.Bio,
		LastLoginAt:  a.LastLoginAt,
		CreatedAt:    a.CreatedAt,
	}
}

type sessionPayload struct {
	Account      accountPayload `json:"account"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
}

func (s *Server) setSessionCookies(w http.ResponseWriter, access, refresh string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    access,
		Path:     "/",
		MaxAge:   int(s.config.AccessTokenValidityDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refresh,
		Path:     "/",
		MaxAge:   int(s.config.RefreshTokenValidityDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "email, password and name are required")
		return
	}

	s.logger.Info(r.Context(), "Sign-up request")

	account, err := s.sessions.SignUp(r.Context(), req.Email, req.Password, req.Name, models.RoleUser)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "Signed up", "account_id", account.ID)
	writeJSON(w, http.StatusCreated, toAccountPayload(account))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess, err := s.sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.setSessionCookies(w, sess.AccessToken, sess.RefreshToken)
	writeJSON(w, http.StatusOK, sessionPayload{
		Account:      toAccountPayload(sess.Account),
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	// body is optional for cookie clients
	_ = decodeJSON(r, &req)
	if req.RefreshToken == "" {
		if c, err := r.Cookie(refreshTokenCookie); err == nil {
			req.RefreshToken = c.Value
		}
	}

	sess, err := s.sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.clearSessionCookies(w)
		writeServiceError(w, err)
		return
	}

	s.setSessionCookies(w, sess.AccessToken, sess.RefreshToken)
	writeJSON(w, http.StatusOK, sessionPayload{
		Account:      toAccountPayload(sess.Account),
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	if err := s.sessions.SignOut(r.Context(), claims.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	s.clearSessionCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	account, err := s.sessions.Session(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountPayload(account))
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	s.logger.Info(r.Context(), "Withdrawal request", "account_id", claims.UserID)

	if err := s.sessions.Withdraw(r.Context(), claims.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	s.clearSessionCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "current and new password are required")
		return
	}

	if err := s.sessions.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.sessions.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	// same response whether or not the address is registered
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset link sent if the address is registered"})
}

func (s *Server) handleNewPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.sessions.NewPassword(r.Context(), req.Token, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password reset"})
}
