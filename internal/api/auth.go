package api

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/foundit-unsri/foundit/internal/auth"
	"github.com/foundit-unsri/foundit/internal/model"
)

// maxRegisterBody bounds registration request bodies.
const maxRegisterBody = 64 << 10

// AuthHandler handles account endpoints.
type AuthHandler struct {
	Auth                *auth.Service
	RegistrationEnabled bool
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /register. The body is either JSON or a form.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.RegistrationEnabled {
		jsonError(w, http.StatusForbidden, "Registrasi dinonaktifkan")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRegisterBody)

	var req registerRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		req.Username = r.FormValue("username")
		req.Password = r.FormValue("password")
	}

	id, err := h.Auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		var ve *model.ValidationError
		switch {
		case errors.As(err, &ve):
			jsonError(w, http.StatusBadRequest, ve.Message)
		case errors.Is(err, auth.ErrUsernameTaken):
			jsonError(w, http.StatusConflict, "Username sudah digunakan")
		default:
			slog.Error("failed to register user", "username", req.Username, "error", err)
			jsonError(w, http.StatusInternalServerError, "Terjadi kesalahan server")
		}
		return
	}

	slog.Info("registration accepted", "id", id, "remote", r.RemoteAddr)
	jsonMessage(w, http.StatusCreated, "User berhasil dibuat")
}
