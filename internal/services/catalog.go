package services

import (
	"context"
	"errors"
	"log"

	"olympics-storefront/internal/models"

	"golang.org/x/sync/errgroup"
)

// CatalogService serves the sport listing, sport detail and offer pages.
// Catalog failures never reach the visitor as errors: they are logged and the
// page renders with what could be loaded.
type CatalogService struct {
	api CatalogAPI
}

// NewCatalogService creates a new catalog service
func NewCatalogService(api CatalogAPI) *CatalogService {
	return &CatalogService{api: api}
}

// SportListing is the result of a search over the sport catalog
type SportListing struct {
	Query  string
	Sports []models.Sport
	// NotFound is set whenever no sport is left to show, including an empty
	// or unavailable catalog
	NotFound bool
}

// SportDetailView is everything the sport page needs
type SportDetailView struct {
	Slug   string
	Sport  *models.Sport
	Offers []models.Offer
	// NotFound is set when no sport could be shown for Slug
	NotFound bool
}

// ListSports returns the whole catalog, or an empty list if it cannot be loaded
func (s *CatalogService) ListSports(ctx context.Context) []models.Sport {
	sports, err := s.api.Sports(ctx)
	if err != nil {
		log.Printf("catalog: failed to load sports: %v", err)
		return []models.Sport{}
	}
	return sports
}

// FilterSports keeps the sports whose name or venue contains query,
// case-insensitively. The filter runs on the already loaded list.
func FilterSports(sports []models.Sport, query string) []models.Sport {
	filtered := make([]models.Sport, 0, len(sports))
	for i := range sports {
		if sports[i].Matches(query) {
			filtered = append(filtered, sports[i])
		}
	}
	return filtered
}

// SearchSports loads the catalog once and filters it
func (s *CatalogService) SearchSports(ctx context.Context, query string) *SportListing {
	sports := FilterSports(s.ListSports(ctx), query)
	return &SportListing{
		Query:    query,
		Sports:   sports,
		NotFound: len(sports) == 0,
	}
}

// FeaturedSports returns the first sports of the catalog for the home page
func (s *CatalogService) FeaturedSports(ctx context.Context, limit int) []models.Sport {
	sports := s.ListSports(ctx)
	if limit > 0 && limit < len(sports) {
		return sports[:limit]
	}
	return sports
}

// SportDetail loads a sport and, independently, the offer catalog. An unknown
// slug, or a sport that cannot be loaded, gives a NotFound view.
func (s *CatalogService) SportDetail(ctx context.Context, slug string) *SportDetailView {
	view := &SportDetailView{Slug: slug}

	var (
		sport  *models.Sport
		err    error
		offers []models.Offer
		g      errgroup.Group
	)
	g.Go(func() error {
		sport, err = s.api.Sport(ctx, slug)
		return nil
	})
	g.Go(func() error {
		offers = s.Offers(ctx)
		return nil
	})
	g.Wait()

	switch {
	case errors.Is(err, models.ErrSportNotFound):
		view.NotFound = true
		return view
	case err != nil:
		log.Printf("catalog: failed to load sport %q: %v", slug, err)
		view.NotFound = true
		return view
	}

	view.Sport = sport
	view.Offers = offers
	return view
}

// Offers returns the offer catalog, or an empty list if it cannot be loaded
func (s *CatalogService) Offers(ctx context.Context) []models.Offer {
	offers, err := s.api.Offers(ctx)
	if err != nil {
		log.Printf("catalog: failed to load offers: %v", err)
		return []models.Offer{}
	}
	return offers
}
