package services

import (
	"context"

	"olympics-storefront/internal/models"
)

// CatalogAPI is the read-only catalog part of the ticketing API
type CatalogAPI interface {
	Sports(ctx context.Context) ([]models.Sport, error)
	Sport(ctx context.Context, slug string) (*models.Sport, error)
	Offers(ctx context.Context) ([]models.Offer, error)
}

// CartAPI is the cart part of the ticketing API
type CartAPI interface {
	CartItems(ctx context.Context, userID int) ([]models.CartItem, error)
	AddToCart(ctx context.Context, userID, eventID, offerID, places int) (*models.CartAddition, error)
	RemoveFromCart(ctx context.Context, userID, itemID int) error
	ValidateCart(ctx context.Context, userID int) (*models.CartValidation, error)
}

// TicketAPI is the ticket part of the ticketing API
type TicketAPI interface {
	UserTickets(ctx context.Context, userID int) ([]models.Ticket, error)
	DownloadTicket(ctx context.Context, ticketID int, token string) (*models.TicketDocument, error)
}

// CatalogServiceInterface defines the interface for catalog services
type CatalogServiceInterface interface {
	ListSports(ctx context.Context) []models.Sport
	SearchSports(ctx context.Context, query string) *SportListing
	FeaturedSports(ctx context.Context, limit int) []models.Sport
	SportDetail(ctx context.Context, slug string) *SportDetailView
	Offers(ctx context.Context) []models.Offer
}

// CartServiceInterface defines the interface for cart services
type CartServiceInterface interface {
	Items(ctx context.Context, user *models.User) []models.CartItem
	LoadProfile(ctx context.Context, user *models.User) (*Profile, error)
	Add(ctx context.Context, user *models.User, eventID, offerID, places int) (*models.CartAddition, error)
	RemoveItem(ctx context.Context, user *models.User, items []models.CartItem, itemID int) ([]models.CartItem, error)
	Validate(ctx context.Context, user *models.User, items []models.CartItem) (*models.CartValidation, error)
	SubmitReservation(ctx context.Context, user *models.User, r *Reservation) (*models.CartAddition, error)
}

// TicketServiceInterface defines the interface for ticket services
type TicketServiceInterface interface {
	UserTickets(ctx context.Context, user *models.User) ([]models.Ticket, error)
	Download(ctx context.Context, user *models.User, token string, ticketID int) (*models.TicketDocument, error)
}
