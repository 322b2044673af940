package services

import (
	"context"
	"log"

	"olympics-storefront/internal/models"

	"golang.org/x/sync/errgroup"
)

// CartService handles the visitor's cart: loading, adding, removing and
// checking out. Every mutation for a user goes through the mutation queue.
type CartService struct {
	cart    CartAPI
	tickets TicketAPI
	queue   *MutationQueue
}

// NewCartService creates a new cart service
func NewCartService(cart CartAPI, tickets TicketAPI, queue *MutationQueue) *CartService {
	if queue == nil {
		queue = NewMutationQueue()
	}
	return &CartService{
		cart:    cart,
		tickets: tickets,
		queue:   queue,
	}
}

// Profile is a fresh snapshot of a user's tickets and cart
type Profile struct {
	Tickets []models.Ticket
	Cart    []models.CartItem
	Total   float64
}

// requireUser is the authorization gate for cart and ticket operations
func requireUser(user *models.User) error {
	if user == nil {
		return models.ErrLoginRequired
	}
	if !user.Valid() {
		return models.ErrInvalidUserID
	}
	return nil
}

// Items returns the user's cart. A missing or invalid user yields an empty
// cart without calling the API, and so does a failed load.
func (s *CartService) Items(ctx context.Context, user *models.User) []models.CartItem {
	if requireUser(user) != nil {
		return []models.CartItem{}
	}

	items, err := s.cart.CartItems(ctx, user.ID)
	if err != nil {
		log.Printf("cart: failed to load cart for user %d: %v", user.ID, err)
		return []models.CartItem{}
	}
	return items
}

// LoadProfile loads the user's tickets and cart together. It is called on
// entry to the profile and after every mutation, so the cart shown is always
// the API's, never reconstructed locally.
func (s *CartService) LoadProfile(ctx context.Context, user *models.User) (*Profile, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}

	profile := &Profile{}
	var g errgroup.Group

	g.Go(func() error {
		tickets, err := s.tickets.UserTickets(ctx, user.ID)
		if err != nil {
			log.Printf("cart: failed to load tickets for user %d: %v", user.ID, err)
			tickets = []models.Ticket{}
		}
		profile.Tickets = tickets
		return nil
	})
	g.Go(func() error {
		profile.Cart = s.Items(ctx, user)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile.Total = models.CartTotal(profile.Cart)
	return profile, nil
}

// Add puts places for an event under an offer in the user's cart
func (s *CartService) Add(ctx context.Context, user *models.User, eventID, offerID, places int) (*models.CartAddition, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}

	var added *models.CartAddition
	err := s.queue.Do(ctx, user.ID, func(ctx context.Context) error {
		var err error
		added, err = s.cart.AddToCart(ctx, user.ID, eventID, offerID, places)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("cart: user %d added event %d offer %d x%d", user.ID, eventID, offerID, places)
	return added, nil
}

// RemoveItem deletes a line and returns items without it. The list is
// filtered locally rather than re-fetched; on failure items is returned as is.
func (s *CartService) RemoveItem(ctx context.Context, user *models.User, items []models.CartItem, itemID int) ([]models.CartItem, error) {
	if err := requireUser(user); err != nil {
		return items, err
	}

	err := s.queue.Do(ctx, user.ID, func(ctx context.Context) error {
		return s.cart.RemoveFromCart(ctx, user.ID, itemID)
	})
	if err != nil {
		return items, err
	}

	return models.RemoveCartItem(items, itemID), nil
}

// Validate checks out the cart. An empty cart is refused before any call.
// Callers reload the profile afterwards: the new tickets only exist server-side.
func (s *CartService) Validate(ctx context.Context, user *models.User, items []models.CartItem) (*models.CartValidation, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}

	var validation *models.CartValidation
	err := s.queue.Do(ctx, user.ID, func(ctx context.Context) error {
		var err error
		validation, err = s.cart.ValidateCart(ctx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("cart: user %d validated %d item(s)", user.ID, len(items))
	return validation, nil
}
