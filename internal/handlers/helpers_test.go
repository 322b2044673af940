package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"olympics-storefront/internal/middleware"
	"olympics-storefront/internal/models"
	"olympics-storefront/internal/session"
	"olympics-storefront/internal/storage"
	"olympics-storefront/web"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	renderer, err := NewRenderer(web.Templates())
	require.NoError(t, err)
	return renderer
}

// visitor is one browser: its storage survives across requests
type visitor struct {
	kv   *storage.Memory
	auth session.Authenticator
}

func newVisitor(auth session.Authenticator) *visitor {
	return &visitor{kv: storage.NewMemory(), auth: auth}
}

func loggedInVisitor(t *testing.T) *visitor {
	t.Helper()
	v := newVisitor(nil)
	require.NoError(t, v.kv.Set(session.UserKey, `{"id":7,"email":"marie@example.com","nom":"Curie","prenom":"Marie"}`))
	require.NoError(t, v.kv.Set(session.TokenKey, "tok-7"))
	return v
}

// middleware mirrors LoadSession over the visitor's storage
func (v *visitor) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := session.New(v.kv, v.auth)
		store.Bootstrap()
		next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), store)))
	})
}

func (v *visitor) flash(t *testing.T) *Flash {
	t.Helper()
	return popFlash(v.kv)
}

func newFormRequest(method, target string, form url.Values) *http.Request {
	if form == nil {
		return httptest.NewRequest(method, target, nil)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serveRequest(router chi.Router, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func serve(router chi.Router, method, target string, form url.Values) *httptest.ResponseRecorder {
	return serveRequest(router, newFormRequest(method, target, form))
}

// MockCatalogAPI is a mock implementation of services.CatalogAPI
type MockCatalogAPI struct {
	mock.Mock
}

func (m *MockCatalogAPI) Sports(ctx context.Context) ([]models.Sport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Sport), args.Error(1)
}

func (m *MockCatalogAPI) Sport(ctx context.Context, slug string) (*models.Sport, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sport), args.Error(1)
}

func (m *MockCatalogAPI) Offers(ctx context.Context) ([]models.Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}

// MockCartAPI is a mock implementation of services.CartAPI
type MockCartAPI struct {
	mock.Mock
}

func (m *MockCartAPI) CartItems(ctx context.Context, userID int) ([]models.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockCartAPI) AddToCart(ctx context.Context, userID, eventID, offerID, places int) (*models.CartAddition, error) {
	args := m.Called(ctx, userID, eventID, offerID, places)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartAddition), args.Error(1)
}

func (m *MockCartAPI) RemoveFromCart(ctx context.Context, userID, itemID int) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *MockCartAPI) ValidateCart(ctx context.Context, userID int) (*models.CartValidation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartValidation), args.Error(1)
}

// MockTicketAPI is a mock implementation of services.TicketAPI
type MockTicketAPI struct {
	mock.Mock
}

func (m *MockTicketAPI) UserTickets(ctx context.Context, userID int) ([]models.Ticket, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *MockTicketAPI) DownloadTicket(ctx context.Context, ticketID int, token string) (*models.TicketDocument, error) {
	args := m.Called(ctx, ticketID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketDocument), args.Error(1)
}

// MockAuthenticator is a mock implementation of session.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResult), args.Error(1)
}

func (m *MockAuthenticator) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func athletics() *models.Sport {
	return &models.Sport{
		ID:    1,
		Slug:  "athletisme",
		Name:  "Athlétisme",
		Venue: "Stade de France",
		Events: []models.Event{
			{ID: 42, Name: "100m finale hommes", Time: "21:50", RemainingPlaces: 120},
		},
	}
}

func catalogOffers() []models.Offer {
	return []models.Offer{
		{ID: 1, Name: "Solo", Price: 50, Capacity: 1},
		{ID: 2, Name: "Duo", Price: 90, Capacity: 2},
	}
}
