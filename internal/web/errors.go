package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/foundit-unsri/foundit/internal/model"
	"github.com/foundit-unsri/foundit/internal/store"
	"github.com/foundit-unsri/foundit/internal/upload"
)

const (
	msgNotFound       = "Item tidak ditemukan"
	msgServerError    = "Terjadi kesalahan server"
	msgLogoutFailed   = "Gagal logout"
	msgUnsupported    = "Format foto tidak didukung"
	msgTooManyFiles   = "Hanya satu foto yang dapat diunggah"
	msgUploadTooLarge = "Ukuran unggahan terlalu besar"
	msgBadForm        = "Form tidak valid"
)

// httpError translates a handler error into a plain-text response. Anything
// unrecognised is logged and reported as a server error.
func httpError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *model.ValidationError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, msgNotFound, http.StatusNotFound)
	case errors.As(err, &ve):
		http.Error(w, ve.Message, http.StatusBadRequest)
	case errors.Is(err, upload.ErrUnsupportedImage):
		http.Error(w, msgUnsupported, http.StatusBadRequest)
	case errors.Is(err, upload.ErrTooManyFiles):
		http.Error(w, msgTooManyFiles, http.StatusBadRequest)
	case errors.As(err, &tooLarge):
		http.Error(w, msgUploadTooLarge, http.StatusBadRequest)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, msgServerError, http.StatusInternalServerError)
	}
}
