package handlers

import (
	"net/http"

	"olympics-storefront/internal/services"

	"github.com/go-chi/chi/v5"
)

// FeaturedSportCount is how many sports the home page shows
const FeaturedSportCount = 6

// CatalogHandler serves the public catalog pages
type CatalogHandler struct {
	catalog  services.CatalogServiceInterface
	renderer *Renderer
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog services.CatalogServiceInterface, renderer *Renderer) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		renderer: renderer,
	}
}

type homeData struct {
	Sports any
}

type sportData struct {
	View        *services.SportDetailView
	Reservation *services.Reservation
}

type offersData struct {
	Offers any
}

// Home renders the landing page with a few featured sports
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	sports := h.catalog.FeaturedSports(r.Context(), FeaturedSportCount)
	h.renderer.Render(w, http.StatusOK, "home", newPage(r, "Accueil", homeData{Sports: sports}))
}

// Sports renders the searchable sport listing
func (h *CatalogHandler) Sports(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	listing := h.catalog.SearchSports(r.Context(), query)
	h.renderer.Render(w, http.StatusOK, "sports", newPage(r, "Billetterie", listing))
}

// Sport renders one sport with its events and the offer catalog. An unknown
// sport renders the not-found state with a 404.
func (h *CatalogHandler) Sport(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	view := h.catalog.SportDetail(r.Context(), slug)

	reservation := services.NewReservation()
	if kv := visitorStorage(r); kv != nil {
		reservation = services.LoadReservation(kv)
	}

	status := http.StatusOK
	title := "Sport introuvable"
	if view.NotFound {
		status = http.StatusNotFound
	} else {
		title = view.Sport.Name
	}

	h.renderer.Render(w, status, "sport", newPage(r, title, sportData{View: view, Reservation: reservation}))
}

// Offers renders the offer catalog
func (h *CatalogHandler) Offers(w http.ResponseWriter, r *http.Request) {
	offers := h.catalog.Offers(r.Context())
	h.renderer.Render(w, http.StatusOK, "offers", newPage(r, "Nos offres", offersData{Offers: offers}))
}
