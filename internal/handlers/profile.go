package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"olympics-storefront/internal/middleware"
	"olympics-storefront/internal/models"
	"olympics-storefront/internal/services"

	"github.com/go-chi/chi/v5"
)

// Profile tabs
const (
	TabTickets = "billets"
	TabCart    = "panier"
)

// ProfileHandler renders the visitor's tickets and cart and serves ticket downloads
type ProfileHandler struct {
	cart     services.CartServiceInterface
	tickets  services.TicketServiceInterface
	renderer *Renderer
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(cart services.CartServiceInterface, tickets services.TicketServiceInterface, renderer *Renderer) *ProfileHandler {
	return &ProfileHandler{
		cart:     cart,
		tickets:  tickets,
		renderer: renderer,
	}
}

type profileData struct {
	Tab           string
	Tickets       []models.Ticket
	TicketsLoaded bool
	Cart          []models.CartItem
	Total         float64
}

// TicketsTab renders the profile on the tickets tab
func (h *ProfileHandler) TicketsTab(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, TabTickets)
}

// CartTab renders the profile on the cart tab
func (h *ProfileHandler) CartTab(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, TabCart)
}

// show loads a fresh snapshot of tickets and cart on every entry
func (h *ProfileHandler) show(w http.ResponseWriter, r *http.Request, tab string) {
	user := middleware.GetUserFromContext(r.Context())

	profile, err := h.cart.LoadProfile(r.Context(), user)
	if err != nil {
		if errors.Is(err, models.ErrLoginRequired) || errors.Is(err, models.ErrInvalidUserID) {
			http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
			return
		}
		http.Error(w, "Impossible de charger le profil", http.StatusInternalServerError)
		return
	}

	saveCartToSession(r, profile.Cart)

	data := profileData{
		Tab:           tab,
		Tickets:       profile.Tickets,
		TicketsLoaded: true,
		Cart:          profile.Cart,
		Total:         profile.Total,
	}
	h.renderer.Render(w, http.StatusOK, "profile", newPage(r, "Mon espace", data))
}

// DownloadTicket sends one ticket document as an attachment. A failed
// download is reported on the profile page, which is otherwise unaffected.
func (h *ProfileHandler) DownloadTicket(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	ticketID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || ticketID <= 0 {
		setFlash(r, FlashError, "Billet introuvable.")
		http.Redirect(w, r, "/profil", http.StatusSeeOther)
		return
	}

	token := ""
	if store := middleware.GetSession(r.Context()); store != nil {
		token = store.Token()
	}

	doc, err := h.tickets.Download(r.Context(), user, token, ticketID)
	if err != nil {
		setFlash(r, FlashError, "Le téléchargement du billet a échoué : "+errorMessage(err))
		http.Redirect(w, r, "/profil", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}
