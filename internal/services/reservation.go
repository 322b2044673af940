package services

import (
	"context"
	"encoding/json"
	"log"

	"olympics-storefront/internal/models"
	"olympics-storefront/internal/storage"
)

// ReservationPlaces is the number of places booked per reservation
const ReservationPlaces = 1

// ReservationKey is where an in-progress reservation is kept in the visitor's storage
const ReservationKey = "reservation"

// ReservationState is a step of an event reservation
type ReservationState string

const (
	StateIdle           ReservationState = "idle"
	StateOfferSelection ReservationState = "offer_selection"
	StateSubmitting     ReservationState = "submitting"
)

// Reservation tracks one attempt to put an event in the cart:
// Idle -> OfferSelection -> Submitting -> Idle, with Cancel back to Idle.
// At most one offer is selected at a time.
type Reservation struct {
	State     ReservationState `json:"state"`
	SportSlug string           `json:"sport_slug,omitempty"`
	Event     *models.Event    `json:"event,omitempty"`
	OfferID   int              `json:"offer_id,omitempty"`
}

// NewReservation returns an idle reservation
func NewReservation() *Reservation {
	return &Reservation{State: StateIdle}
}

// Begin opens offer selection for an event. Without a logged-in user the
// reservation stays idle and models.ErrLoginRequired is returned.
func (r *Reservation) Begin(user *models.User, sportSlug string, event models.Event) error {
	if !user.Valid() {
		return models.ErrLoginRequired
	}

	r.State = StateOfferSelection
	r.SportSlug = sportSlug
	r.Event = &event
	r.OfferID = 0
	return nil
}

// SelectOffer marks offer as the selection, replacing any previous one
func (r *Reservation) SelectOffer(offer models.Offer) error {
	if r.State != StateOfferSelection {
		return models.ErrNoReservation
	}
	if offer.ID <= 0 {
		return models.ErrInvalidInput
	}
	r.OfferID = offer.ID
	return nil
}

// Cancel clears the selection and returns to idle. Nothing was persisted yet,
// so there is nothing to undo server-side.
func (r *Reservation) Cancel() {
	*r = Reservation{State: StateIdle}
}

// Active reports whether offer selection is open
func (r *Reservation) Active() bool {
	return r.State == StateOfferSelection || r.State == StateSubmitting
}

// IsFor reports whether the reservation is open for the given event
func (r *Reservation) IsFor(eventID int) bool {
	return r.Active() && r.Event != nil && r.Event.ID == eventID
}

// SubmitReservation adds the reserved event to the cart under the selected
// offer, one place. Success returns the reservation to idle; failure leaves
// it in offer selection with the selection kept so the visitor can retry.
func (s *CartService) SubmitReservation(ctx context.Context, user *models.User, r *Reservation) (*models.CartAddition, error) {
	if r.State != StateOfferSelection || r.Event == nil {
		return nil, models.ErrNoReservation
	}
	if r.OfferID <= 0 {
		return nil, models.ErrNoOfferSelected
	}
	if !user.Valid() {
		return nil, models.ErrLoginRequired
	}

	r.State = StateSubmitting
	added, err := s.Add(ctx, user, r.Event.ID, r.OfferID, ReservationPlaces)
	if err != nil {
		r.State = StateOfferSelection
		return nil, err
	}

	r.Cancel()
	return added, nil
}

// LoadReservation reads the visitor's reservation. Missing or unreadable
// state is an idle reservation.
func LoadReservation(kv storage.KV) *Reservation {
	raw, ok, err := kv.Get(ReservationKey)
	if err != nil {
		log.Printf("reservation: failed to read state: %v", err)
		return NewReservation()
	}
	if !ok {
		return NewReservation()
	}

	var r Reservation
	if err := json.Unmarshal([]byte(raw), &r); err != nil || r.State == "" {
		return NewReservation()
	}
	// A request that died mid-submit leaves the selection open for a retry.
	if r.State == StateSubmitting {
		r.State = StateOfferSelection
	}
	return &r
}

// SaveReservation persists the reservation; an idle one is removed
func SaveReservation(kv storage.KV, r *Reservation) error {
	if !r.Active() {
		return kv.Remove(ReservationKey)
	}

	encoded, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return kv.Set(ReservationKey, string(encoded))
}
