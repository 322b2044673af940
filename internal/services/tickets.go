package services

import (
	"context"
	"log"

	"olympics-storefront/internal/models"
)

// TicketService lists a user's tickets and fetches their documents
type TicketService struct {
	api TicketAPI
}

// NewTicketService creates a new ticket service
func NewTicketService(api TicketAPI) *TicketService {
	return &TicketService{api: api}
}

// UserTickets returns the tickets the user has bought
func (s *TicketService) UserTickets(ctx context.Context, user *models.User) ([]models.Ticket, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	return s.api.UserTickets(ctx, user.ID)
}

// Download fetches one ticket's document. Failures are reported to the caller
// as is; nothing is retried.
func (s *TicketService) Download(ctx context.Context, user *models.User, token string, ticketID int) (*models.TicketDocument, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}

	doc, err := s.api.DownloadTicket(ctx, ticketID, token)
	if err != nil {
		log.Printf("tickets: user %d failed to download ticket %d: %v", user.ID, ticketID, err)
		return nil, err
	}
	return doc, nil
}
