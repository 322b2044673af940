package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"olympics-storefront/internal/middleware"
	"olympics-storefront/internal/models"
	"olympics-storefront/internal/services"

	"github.com/go-chi/chi/v5"
)

// cartSnapshotKey holds the cart as last shown on the profile, so a removal
// can update the list without fetching it again.
const cartSnapshotKey = "panier"

func saveCartToSession(r *http.Request, items []models.CartItem) {
	kv := visitorStorage(r)
	if kv == nil {
		return
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return
	}
	// A cart too large for the cookie is simply not snapshotted; removals then reload it.
	if err := kv.Set(cartSnapshotKey, string(encoded)); err != nil {
		log.Printf("cart [%s]: failed to store cart snapshot: %v", middleware.GetRequestID(r.Context()), err)
		kv.Remove(cartSnapshotKey)
	}
}

func getCartFromSession(r *http.Request) ([]models.CartItem, bool) {
	kv := visitorStorage(r)
	if kv == nil {
		return nil, false
	}
	raw, ok, err := kv.Get(cartSnapshotKey)
	if err != nil || !ok {
		return nil, false
	}
	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false
	}
	return items, true
}

// CartHandler handles removing cart lines and checking out, each behind a
// confirmation page.
type CartHandler struct {
	cart     services.CartServiceInterface
	renderer *Renderer
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cart services.CartServiceInterface, renderer *Renderer) *CartHandler {
	return &CartHandler{
		cart:     cart,
		renderer: renderer,
	}
}

type confirmData struct {
	Message string
	Action  string
	Confirm string
	Cancel  string
}

// currentItems is the cart as the visitor last saw it, or a fresh load
func (h *CartHandler) currentItems(r *http.Request, user *models.User) []models.CartItem {
	if items, ok := getCartFromSession(r); ok {
		return items
	}
	return h.cart.Items(r.Context(), user)
}

// handleRedirect redirects regular requests and answers HTMX requests with
// HX-Redirect so the whole page is reloaded.
func (h *CartHandler) handleRedirect(w http.ResponseWriter, r *http.Request, url string, statusCode int) {
	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, statusCode)
}

func findCartItem(items []models.CartItem, id int) (*models.CartItem, bool) {
	for i := range items {
		if items[i].ID == id {
			return &items[i], true
		}
	}
	return nil, false
}

// ConfirmRemove asks before deleting a cart line
func (h *CartHandler) ConfirmRemove(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	itemID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || itemID <= 0 {
		http.Redirect(w, r, "/profil/panier", http.StatusSeeOther)
		return
	}

	message := "Retirer cet article de votre panier ?"
	if item, ok := findCartItem(h.currentItems(r, user), itemID); ok && item.EventName != "" {
		message = fmt.Sprintf("Retirer « %s » de votre panier ?", item.EventName)
	}

	data := confirmData{
		Message: message,
		Action:  r.URL.Path,
		Confirm: "Supprimer",
		Cancel:  "/profil/panier",
	}
	h.renderer.Render(w, http.StatusOK, "confirm", newPage(r, "Supprimer un article", data))
}

// RemoveItem deletes a cart line and shows the cart without it. The list is
// filtered locally; it is not fetched again.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	itemID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || itemID <= 0 {
		h.handleRedirect(w, r, "/profil/panier", http.StatusSeeOther)
		return
	}

	snapshot, haveSnapshot := getCartFromSession(r)
	items := snapshot
	if !haveSnapshot {
		items = h.cart.Items(r.Context(), user)
	}

	remaining, err := h.cart.RemoveItem(r.Context(), user, items, itemID)
	if err != nil {
		setFlash(r, FlashError, "La suppression a échoué : "+errorMessage(err))
		h.handleRedirect(w, r, "/profil/panier", http.StatusSeeOther)
		return
	}
	saveCartToSession(r, remaining)

	page := newPage(r, "Mon espace", profileData{
		Tab:   TabCart,
		Cart:  remaining,
		Total: models.CartTotal(remaining),
	})
	page.Flash = &Flash{Kind: FlashSuccess, Message: "Article retiré du panier."}

	if middleware.IsHTMXRequest(r) {
		h.renderer.Fragment(w, http.StatusOK, "profile", "cart_panel", page)
		return
	}
	h.renderer.Render(w, http.StatusOK, "profile", page)
}

// ConfirmValidate asks before checking out
func (h *CartHandler) ConfirmValidate(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	items := h.currentItems(r, user)
	if len(items) == 0 {
		setFlash(r, FlashError, errorMessage(models.ErrEmptyCart))
		h.handleRedirect(w, r, "/profil/panier", http.StatusSeeOther)
		return
	}

	data := confirmData{
		Message: fmt.Sprintf("Valider votre panier de %d article(s) pour un total de %s ?", len(items), models.FormatEuros(models.CartTotal(items))),
		Action:  "/panier/valider",
		Confirm: "Valider et payer",
		Cancel:  "/profil/panier",
	}
	h.renderer.Render(w, http.StatusOK, "confirm", newPage(r, "Valider mon panier", data))
}

// Validate checks out the cart, then reloads the whole profile so the new
// tickets appear.
func (h *CartHandler) Validate(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	items := h.currentItems(r, user)

	validation, err := h.cart.Validate(r.Context(), user, items)
	if err != nil {
		if errors.Is(err, models.ErrEmptyCart) {
			setFlash(r, FlashError, errorMessage(err))
		} else {
			setFlash(r, FlashError, "La validation du panier a échoué : "+errorMessage(err))
		}
		h.handleRedirect(w, r, "/profil/panier", http.StatusSeeOther)
		return
	}

	if kv := visitorStorage(r); kv != nil {
		kv.Remove(cartSnapshotKey)
	}

	message := fmt.Sprintf("Panier validé : %d billet(s) émis.", len(validation.Tickets))
	if validation.Message != "" {
		message = validation.Message
	}
	setFlash(r, FlashSuccess, message)
	h.handleRedirect(w, r, "/profil", http.StatusSeeOther)
}
