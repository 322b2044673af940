package services

import (
	"context"
	"errors"
	"testing"

	"olympics-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTicketService_UserTickets(t *testing.T) {
	ctx := context.Background()
	api := new(MockTicketAPI)
	api.On("UserTickets", ctx, 7).Return([]models.Ticket{{ID: 1}, {ID: 2}}, nil)

	tickets, err := NewTicketService(api).UserTickets(ctx, testUser())

	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestTicketService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("passes the token", func(t *testing.T) {
		api := new(MockTicketAPI)
		doc := &models.TicketDocument{TicketID: 3, ContentType: "application/pdf", Filename: models.TicketFilename(3), Data: []byte("%PDF")}
		api.On("DownloadTicket", ctx, 3, "tok").Return(doc, nil)

		got, err := NewTicketService(api).Download(ctx, testUser(), "tok", 3)

		require.NoError(t, err)
		assert.Equal(t, "billet_paris2024_3.pdf", got.Filename)
	})

	t.Run("failure is reported", func(t *testing.T) {
		api := new(MockTicketAPI)
		api.On("DownloadTicket", ctx, 3, "").Return(nil, errors.New("forbidden"))

		_, err := NewTicketService(api).Download(ctx, testUser(), "", 3)
		assert.Error(t, err)
	})

	t.Run("requires login", func(t *testing.T) {
		api := new(MockTicketAPI)

		_, err := NewTicketService(api).Download(ctx, nil, "tok", 3)

		assert.ErrorIs(t, err, models.ErrLoginRequired)
		api.AssertNotCalled(t, "DownloadTicket", mock.Anything, mock.Anything, mock.Anything)
	})
}
