package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"olympics-storefront/internal/middleware"
	"olympics-storefront/internal/models"
	"olympics-storefront/internal/services"
)

// ReservationHandler walks a visitor through reserving an event: pick the
// event, choose an offer, then add it to the cart or cancel.
type ReservationHandler struct {
	catalog services.CatalogServiceInterface
	cart    services.CartServiceInterface
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(catalog services.CatalogServiceInterface, cart services.CartServiceInterface) *ReservationHandler {
	return &ReservationHandler{
		catalog: catalog,
		cart:    cart,
	}
}

func sportPath(slug string) string {
	if slug == "" {
		return "/billetterie"
	}
	return "/sports/" + url.PathEscape(slug)
}

func (h *ReservationHandler) save(r *http.Request, reservation *services.Reservation) {
	kv := visitorStorage(r)
	if kv == nil {
		return
	}
	if err := services.SaveReservation(kv, reservation); err != nil {
		log.Printf("reservation [%s]: failed to save state: %v", middleware.GetRequestID(r.Context()), err)
	}
}

func (h *ReservationHandler) load(r *http.Request) *services.Reservation {
	if kv := visitorStorage(r); kv != nil {
		return services.LoadReservation(kv)
	}
	return services.NewReservation()
}

func loginRedirect(w http.ResponseWriter, r *http.Request, back string) {
	http.Redirect(w, r, middleware.LoginPath+"?redirect="+url.QueryEscape(back), http.StatusSeeOther)
}

// Begin opens offer selection for an event. Anonymous visitors are sent to
// log in and brought back to the sport page before the catalog is touched.
func (h *ReservationHandler) Begin(w http.ResponseWriter, r *http.Request) {
	slug := r.FormValue("sport")
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		setFlash(r, FlashInfo, "Connectez-vous pour réserver vos billets.")
		loginRedirect(w, r, sportPath(slug))
		return
	}

	eventID, err := strconv.Atoi(r.FormValue("event_id"))
	if err != nil || eventID <= 0 {
		setFlash(r, FlashError, "Épreuve introuvable.")
		http.Redirect(w, r, sportPath(slug), http.StatusSeeOther)
		return
	}

	view := h.catalog.SportDetail(r.Context(), slug)
	if view.NotFound {
		setFlash(r, FlashError, "Sport introuvable.")
		http.Redirect(w, r, "/billetterie", http.StatusSeeOther)
		return
	}
	event, ok := view.Sport.Event(eventID)
	if !ok {
		setFlash(r, FlashError, "Épreuve introuvable.")
		http.Redirect(w, r, sportPath(slug), http.StatusSeeOther)
		return
	}

	reservation := h.load(r)
	if err := reservation.Begin(user, slug, *event); err != nil {
		if errors.Is(err, models.ErrLoginRequired) {
			loginRedirect(w, r, sportPath(slug))
			return
		}
		setFlash(r, FlashError, errorMessage(err))
		http.Redirect(w, r, sportPath(slug), http.StatusSeeOther)
		return
	}

	h.save(r, reservation)
	http.Redirect(w, r, sportPath(slug)+"#epreuve-"+strconv.Itoa(eventID), http.StatusSeeOther)
}

// SelectOffer records the chosen offer, replacing any earlier choice
func (h *ReservationHandler) SelectOffer(w http.ResponseWriter, r *http.Request) {
	reservation := h.load(r)
	back := sportPath(reservation.SportSlug)

	offerID, _ := strconv.Atoi(r.FormValue("offer_id"))
	offer, ok := models.FindOffer(h.catalog.Offers(r.Context()), offerID)
	if !ok {
		setFlash(r, FlashError, "Offre introuvable.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if err := reservation.SelectOffer(*offer); err != nil {
		setFlash(r, FlashError, errorMessage(err))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	h.save(r, reservation)
	if reservation.Event != nil {
		back += "#epreuve-" + strconv.Itoa(reservation.Event.ID)
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// Submit adds the reserved event to the cart
func (h *ReservationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	reservation := h.load(r)
	back := sportPath(reservation.SportSlug)

	added, err := h.cart.SubmitReservation(r.Context(), middleware.GetUserFromContext(r.Context()), reservation)
	h.save(r, reservation)

	if err != nil {
		if errors.Is(err, models.ErrLoginRequired) {
			loginRedirect(w, r, back)
			return
		}
		setFlash(r, FlashError, "Impossible d'ajouter au panier : "+errorMessage(err))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	message := "Billet ajouté au panier."
	if added != nil && added.Message != "" {
		message = added.Message
	}
	setFlash(r, FlashSuccess, message)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// Cancel abandons the reservation
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	reservation := h.load(r)
	back := sportPath(reservation.SportSlug)

	reservation.Cancel()
	h.save(r, reservation)
	http.Redirect(w, r, back, http.StatusSeeOther)
}
