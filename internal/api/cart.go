package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"olympics-storefront/internal/models"
)

func cartPath(userID int) string {
	return "/api/panier/user/" + strconv.Itoa(userID)
}

// CartItems returns the pending lines of a user's cart
func (c *Client) CartItems(ctx context.Context, userID int) ([]models.CartItem, error) {
	if userID <= 0 {
		return nil, models.ErrInvalidUserID
	}

	var items []models.CartItem
	if err := c.do(ctx, request{method: http.MethodGet, path: cartPath(userID)}, &items); err != nil {
		return nil, err
	}

	for i := range items {
		if field := items[i].Validate(); field != "" {
			return nil, &ContractError{Resource: "cart", Field: field}
		}
	}

	return items, nil
}

// AddToCart adds places for an event under an offer to the user's cart
func (c *Client) AddToCart(ctx context.Context, userID, eventID, offerID, places int) (*models.CartAddition, error) {
	if userID <= 0 {
		return nil, models.ErrInvalidUserID
	}
	if eventID <= 0 || offerID <= 0 || places <= 0 {
		return nil, fmt.Errorf("%w: event %d, offer %d, places %d", models.ErrInvalidInput, eventID, offerID, places)
	}

	var added models.CartAddition
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   cartPath(userID),
		query: url.Values{
			"epreuve_id":    {strconv.Itoa(eventID)},
			"offer_id":      {strconv.Itoa(offerID)},
			"nombre_places": {strconv.Itoa(places)},
		},
	}, &added)
	if err != nil {
		return nil, err
	}

	return &added, nil
}

// RemoveFromCart deletes one line from the user's cart
func (c *Client) RemoveFromCart(ctx context.Context, userID, itemID int) error {
	if userID <= 0 {
		return models.ErrInvalidUserID
	}
	if itemID <= 0 {
		return fmt.Errorf("%w: cart item %d", models.ErrInvalidInput, itemID)
	}

	_, _, err := c.send(ctx, request{
		method: http.MethodDelete,
		path:   cartPath(userID) + "/item/" + strconv.Itoa(itemID),
	})
	return err
}

// ValidateCart checks the cart out. The API turns every line into a ticket
// and empties the cart.
func (c *Client) ValidateCart(ctx context.Context, userID int) (*models.CartValidation, error) {
	if userID <= 0 {
		return nil, models.ErrInvalidUserID
	}

	var validation models.CartValidation
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   cartPath(userID) + "/valider",
	}, &validation)
	if err != nil {
		return nil, err
	}

	return &validation, nil
}
