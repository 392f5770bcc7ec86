package web

import (
	"errors"
	"net/http"

	"github.com/foundit-unsri/foundit/internal/model"
	"github.com/foundit-unsri/foundit/internal/session"
	"github.com/foundit-unsri/foundit/internal/upload"
)

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	items, err := s.Items.ListUnclaimed(r.Context())
	if err != nil {
		httpError(w, r, err)
		return
	}

	s.Templates.Render(w, "index.html", &struct {
		PageData
		Items []model.Item
	}{
		PageData: PageData{Title: "Barang Temuan", User: s.currentSession(r)},
		Items:    items,
	})
}

// Detail handles GET /detail/{id}.
func (s *Server) Detail(w http.ResponseWriter, r *http.Request) {
	it, err := s.Items.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpError(w, r, err)
		return
	}

	s.Templates.Render(w, "detail.html", &struct {
		PageData
		Item *model.Item
	}{
		PageData: PageData{Title: it.Name, User: s.currentSession(r)},
		Item:     it,
	})
}

// Dashboard handles GET /dashboard.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	items, err := s.Items.ListAll(r.Context())
	if err != nil {
		httpError(w, r, err)
		return
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Items []model.Item
	}{
		PageData: PageData{Title: "Dashboard", User: session.FromContext(r.Context())},
		Items:    items,
	})
}

// ItemAdd handles POST /item/add.
func (s *Server) ItemAdd(w http.ResponseWriter, r *http.Request) {
	in, photo, err := s.readItemForm(w, r, false)
	if err != nil {
		httpError(w, r, err)
		return
	}

	if _, err := s.Items.Create(r.Context(), in, photo); err != nil {
		httpError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ItemEdit handles POST /item/edit/{id}.
func (s *Server) ItemEdit(w http.ResponseWriter, r *http.Request) {
	in, photo, err := s.readItemForm(w, r, true)
	if err != nil {
		httpError(w, r, err)
		return
	}

	if err := s.Items.Update(r.Context(), r.PathValue("id"), in, photo); err != nil {
		httpError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ItemDelete handles POST /item/delete/{id}.
func (s *Server) ItemDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.Items.Delete(r.Context(), r.PathValue("id")); err != nil {
		httpError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Photo handles GET /uploads/{name}.
func (s *Server) Photo(w http.ResponseWriter, r *http.Request) {
	p, err := s.Uploads.Path(upload.URLPrefix + r.PathValue("name"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, p)
}

// readItemForm parses and validates an item form, then stores its photo.
// The photo is only written once the fields are known to be valid.
func (s *Server) readItemForm(w http.ResponseWriter, r *http.Request, edit bool) (model.ItemInput, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.ItemInput{}, "", err
		}
		return model.ItemInput{}, "", &model.ValidationError{Field: "form", Message: msgBadForm}
	}

	form := model.ItemForm{
		Name:        r.FormValue("name"),
		Location:    r.FormValue("location"),
		Time:        r.FormValue("time"),
		Description: r.FormValue("description"),
		Status:      r.FormValue("status"),
	}
	in, err := form.Parse(s.Location, edit)
	if err != nil {
		return model.ItemInput{}, "", err
	}

	photo, err := s.Uploads.FromRequest(r)
	if err != nil {
		return model.ItemInput{}, "", err
	}
	return in, photo, nil
}
