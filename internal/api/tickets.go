package api

import (
	"context"
	"net/http"
	"strconv"

	"olympics-storefront/internal/models"
)

// UserTickets returns every ticket the user has bought
func (c *Client) UserTickets(ctx context.Context, userID int) ([]models.Ticket, error) {
	if userID <= 0 {
		return nil, models.ErrInvalidUserID
	}

	var tickets []models.Ticket
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/tickets/user/" + strconv.Itoa(userID),
	}, &tickets)
	if err != nil {
		return nil, err
	}

	for i := range tickets {
		if field := tickets[i].Validate(); field != "" {
			return nil, &ContractError{Resource: "tickets", Field: field}
		}
	}

	return tickets, nil
}

// DownloadTicket fetches the generated document for one ticket, authenticated
// with the bearer token stored at login.
func (c *Client) DownloadTicket(ctx context.Context, ticketID int, token string) (*models.TicketDocument, error) {
	if ticketID <= 0 {
		return nil, models.ErrInvalidTicketID
	}

	header := http.Header{}
	header.Set("Accept", "application/pdf")
	// Always sent, even with an empty token.
	header.Set("Authorization", "Bearer "+token)

	resp, body, err := c.send(ctx, request{
		method: http.MethodGet,
		path:   "/api/tickets/" + strconv.Itoa(ticketID) + "/download-pdf",
		header: header,
	})
	if err != nil {
		return nil, err
	}

	if len(body) == 0 {
		return nil, &ContractError{Resource: "ticket document", Field: "body"}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	return &models.TicketDocument{
		TicketID:    ticketID,
		ContentType: contentType,
		Filename:    models.TicketFilename(ticketID),
		Data:        body,
	}, nil
}
