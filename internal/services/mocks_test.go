package services

import (
	"context"

	"olympics-storefront/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockCatalogAPI is a mock implementation of CatalogAPI
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

// MockCartAPI is a mock implementation of CartAPI
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
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *MockCartAPI) ValidateCart(ctx context.Context, userID int) (*models.CartValidation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartValidation), args.Error(1)
}

// MockTicketAPI is a mock implementation of TicketAPI
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
