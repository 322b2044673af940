package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"olympics-storefront/internal/models"
)

// Offers returns the global offer catalog
func (c *Client) Offers(ctx context.Context) ([]models.Offer, error) {
	var offers []models.Offer
	if err := c.do(ctx, request{method: http.MethodGet, path: "/offers"}, &offers); err != nil {
		return nil, err
	}

	for i := range offers {
		if field := offers[i].Validate(); field != "" {
			return nil, &ContractError{Resource: "offers", Field: field}
		}
	}

	return offers, nil
}

// Sports returns the sport catalog, without events
func (c *Client) Sports(ctx context.Context) ([]models.Sport, error) {
	var sports []models.Sport
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/sports"}, &sports); err != nil {
		return nil, err
	}

	for i := range sports {
		if field := sports[i].Validate(); field != "" {
			return nil, &ContractError{Resource: "sports", Field: field}
		}
	}

	return sports, nil
}

// Sport returns one sport with its events. An unknown slug yields
// models.ErrSportNotFound.
func (c *Client) Sport(ctx context.Context, slug string) (*models.Sport, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, models.ErrSportNotFound
	}

	var sport *models.Sport
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/sports/" + url.PathEscape(slug),
	}, &sport)
	if err != nil {
		if StatusCode(err) == http.StatusNotFound {
			return nil, models.ErrSportNotFound
		}
		return nil, err
	}

	if sport == nil {
		return nil, models.ErrSportNotFound
	}

	if field := sport.Validate(); field != "" {
		return nil, &ContractError{Resource: "sport", Field: field}
	}

	return sport, nil
}
