package handlers

import (
	"net/http"
	"testing"

	"olympics-storefront/internal/api"
	"olympics-storefront/internal/middleware"
	"olympics-storefront/internal/models"
	"olympics-storefront/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func profileRouter(t *testing.T, cartAPI *MockCartAPI, ticketAPI *MockTicketAPI, v *visitor) chi.Router {
	renderer := newTestRenderer(t)
	cart := services.NewCartService(cartAPI, ticketAPI, services.NewMutationQueue())
	profile := NewProfileHandler(cart, services.NewTicketService(ticketAPI), renderer)
	cartHandler := NewCartHandler(cart, renderer)

	r := chi.NewRouter()
	r.Use(v.middleware)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/profil", profile.TicketsTab)
		r.Get("/profil/panier", profile.CartTab)
		r.Get("/billets/{id}/pdf", profile.DownloadTicket)
		r.Get("/panier/articles/{id}/supprimer", cartHandler.ConfirmRemove)
		r.Post("/panier/articles/{id}/supprimer", cartHandler.RemoveItem)
		r.Get("/panier/valider", cartHandler.ConfirmValidate)
		r.Post("/panier/valider", cartHandler.Validate)
	})
	return r
}

func profileCart() []models.CartItem {
	return []models.CartItem{
		{ID: 1, EventName: "100m finale hommes", OfferName: "Solo", Places: 1, TotalPrice: 50},
		{ID: 2, EventName: "Finale 200m papillon", OfferName: "Duo", Places: 2, TotalPrice: 75.50},
		{ID: 3, EventName: "Finale fleuret dames", OfferName: "Solo", Places: 1, TotalPrice: 20},
	}
}

func TestProfileHandler_RequiresLogin(t *testing.T) {
	rr := serve(profileRouter(t, new(MockCartAPI), new(MockTicketAPI), newVisitor(nil)), "GET", "/profil", nil)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/connexion?redirect=%2Fprofil", rr.Header().Get("Location"))
}

func TestProfileHandler_Tabs(t *testing.T) {
	cartAPI := new(MockCartAPI)
	ticketAPI := new(MockTicketAPI)
	cartAPI.On("CartItems", mock.Anything, 7).Return(profileCart()[:2], nil)
	ticketAPI.On("UserTickets", mock.Anything, 7).Return([]models.Ticket{
		{ID: 11, EventName: "Finale 400m", OfferName: "Solo", Places: 1, TotalPrice: 50},
	}, nil)
	router := profileRouter(t, cartAPI, ticketAPI, loggedInVisitor(t))

	rr := serve(router, "GET", "/profil", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Marie Curie")
	assert.Contains(t, body, "MC")
	assert.Contains(t, body, "Mes billets (1)")
	assert.Contains(t, body, "Mon panier (2)")
	assert.Contains(t, body, `href="/billets/11/pdf"`)

	rr = serve(router, "GET", "/profil/panier", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "125.50 €")
}

func TestProfileHandler_Download(t *testing.T) {
	ticketAPI := new(MockTicketAPI)
	ticketAPI.On("DownloadTicket", mock.Anything, 11, "tok-7").Return(&models.TicketDocument{
		TicketID:    11,
		ContentType: "application/pdf",
		Filename:    models.TicketFilename(11),
		Data:        []byte("%PDF-1.4"),
	}, nil)

	rr := serve(profileRouter(t, new(MockCartAPI), ticketAPI, loggedInVisitor(t)), "GET", "/billets/11/pdf", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="billet_paris2024_11.pdf"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", rr.Body.String())
}

func TestProfileHandler_DownloadFailure(t *testing.T) {
	ticketAPI := new(MockTicketAPI)
	ticketAPI.On("DownloadTicket", mock.Anything, 11, "tok-7").
		Return(nil, &api.Error{StatusCode: http.StatusForbidden, Detail: "Accès refusé"})
	v := loggedInVisitor(t)

	rr := serve(profileRouter(t, new(MockCartAPI), ticketAPI, v), "GET", "/billets/11/pdf", nil)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/profil", rr.Header().Get("Location"))
	flash := v.flash(t)
	require.NotNil(t, flash)
	assert.Equal(t, FlashError, flash.Kind)
	assert.Contains(t, flash.Message, "Accès refusé")
}
