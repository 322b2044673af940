package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"olympics-storefront/internal/api"
	"olympics-storefront/internal/middleware"
	"olympics-storefront/internal/models"
	"olympics-storefront/internal/storage"
)

var pageTemplates = []string{"home", "sports", "sport", "offers", "login", "register", "profile", "confirm"}

var templateFuncs = template.FuncMap{
	"euros":  models.FormatEuros,
	"dateFR": func(d models.Date) string { return d.French() },
	"initials": func(u *models.User) string {
		if u == nil {
			return ""
		}
		return u.Initials()
	},
}

// Renderer executes the page templates. Each page is parsed together with the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page from fsys
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(fsys, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		tmpl, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := tmpl.ParseFS(fsys, name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// Page is what every template receives
type Page struct {
	Title     string
	User      *models.User
	CSRFToken string
	Flash     *Flash
	Data      any
}

// Render writes a full page
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, data *Page) {
	rd.execute(w, status, page, "layout", data)
}

// Fragment writes one named block of a page, for htmx swaps
func (rd *Renderer) Fragment(w http.ResponseWriter, status int, page, block string, data *Page) {
	rd.execute(w, status, page, block, data)
}

func (rd *Renderer) execute(w http.ResponseWriter, status int, page, name string, data *Page) {
	tmpl, ok := rd.pages[page]
	if !ok {
		log.Printf("render: unknown page %q", page)
		http.Error(w, "Erreur interne du serveur", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("render: failed to render %s/%s: %v", page, name, err)
		http.Error(w, "Erreur interne du serveur", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// newPage collects what the layout needs and pops the pending flash message
func newPage(r *http.Request, title string, data any) *Page {
	ctx := r.Context()
	page := &Page{
		Title:     title,
		User:      middleware.GetUserFromContext(ctx),
		CSRFToken: middleware.GetCSRFToken(ctx),
		Data:      data,
	}
	if kv := visitorStorage(r); kv != nil {
		page.Flash = popFlash(kv)
	}
	return page
}

// visitorStorage returns the visitor's storage, or nil outside LoadSession
func visitorStorage(r *http.Request) storage.KV {
	if store := middleware.GetSession(r.Context()); store != nil {
		return store.KV()
	}
	return nil
}

const flashKey = "flash"

// Flash kinds
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func setFlash(r *http.Request, kind, message string) {
	kv := visitorStorage(r)
	if kv == nil {
		return
	}
	encoded, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	if err := kv.Set(flashKey, string(encoded)); err != nil {
		log.Printf("flash: failed to store message: %v", err)
	}
}

func popFlash(kv storage.KV) *Flash {
	raw, ok, err := kv.Get(flashKey)
	if err != nil || !ok {
		return nil
	}
	if err := kv.Remove(flashKey); err != nil {
		log.Printf("flash: failed to clear message: %v", err)
	}

	var flash Flash
	if err := json.Unmarshal([]byte(raw), &flash); err != nil || flash.Message == "" {
		return nil
	}
	return &flash
}

// errorMessage turns an error into the sentence shown to the visitor
func errorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptyCart):
		return "Votre panier est vide."
	case errors.Is(err, models.ErrNoOfferSelected):
		return "Veuillez choisir une offre."
	case errors.Is(err, models.ErrNoReservation):
		return "Aucune réservation en cours."
	case errors.Is(err, models.ErrLoginRequired), errors.Is(err, models.ErrInvalidUserID):
		return "Veuillez vous connecter."
	case errors.Is(err, models.ErrInvalidTicketID):
		return "Billet introuvable."
	case errors.Is(err, models.ErrMissingIdentifier), errors.Is(err, models.ErrMalformedResponse):
		return "Réponse inattendue du service de billetterie. Veuillez réessayer."
	}

	if api.StatusCode(err) == 0 {
		return "Le service de billetterie est momentanément indisponible."
	}
	return api.Message(err)
}
