package httpapi

import (
	"net/http"
	"strconv"

	"github.com/nihil-template/nihil-auth/internal/common"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	// unparseable or absent paging values fall through as zero and the
	// service applies its defaults
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	accounts, err := s.users.List(r.Context(), page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]accountPayload, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountPayload(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	account, err := s.users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountPayload(account))
}

func (s *Server) handleGetUserByEmail(w http.ResponseWriter, r *http.Request) {
	account, err := s.users.GetByEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountPayload(account))
}

// handleUserImage resolves a user's stored profile-image key to a presigned
// GET URL. Users without an image 404.
func (s *Server) handleUserImage(w http.ResponseWriter, r *http.Request) {
	account, err := s.users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if account.ProfileImage == nil {
		writeServiceError(w, common.ErrorNotFound)
		return
	}

	url, err := s.users.ProfileImageURL(r.Context(), *account.ProfileImage)
	if err != nil {
		s.logger.Error(r.Context(), "presign failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req struct {
		Name string  `json:"name"`
		Bio  *string `json:"bio"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	account, err := s.users.UpdateProfile(r.Context(), claims.UserID, req.Name, req.Bio)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountPayload(account))
}

// handleImageUploadURL hands the client a storage key plus a presigned PUT
// URL. The upload goes straight to object storage; the client then confirms
// the key via handleAttachImage.
func (s *Server) handleImageUploadURL(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.users.ProfileImageUploadURL(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "presign failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key, "uploadUrl": url})
}

func (s *Server) handleAttachImage(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req struct {
		Key string `json:"key"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	account, err := s.users.AttachProfileImage(r.Context(), claims.UserID, req.Key)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountPayload(account))
}
