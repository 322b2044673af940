package models

import "errors"

// Common errors used throughout the application
var (
	ErrSportNotFound   = errors.New("sport not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrOfferNotFound   = errors.New("offer not found")
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized access")

	// Local preconditions, raised before any call to the ticketing API.
	ErrInvalidUserID   = errors.New("invalid user id")
	ErrInvalidTicketID = errors.New("invalid ticket id")
	ErrLoginRequired   = errors.New("login required")
	ErrNoOfferSelected = errors.New("no offer selected")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNoReservation   = errors.New("no reservation in progress")

	// Registration form
	ErrInvalidEmail     = errors.New("a valid email is required")
	ErrNameRequired     = errors.New("first and last name are required")
	ErrPasswordRequired = errors.New("password is required")

	// Response contract violations
	ErrMissingIdentifier = errors.New("identifier missing from API response")
	ErrMalformedResponse = errors.New("malformed API response")
)
