package models

import "fmt"

// Ticket is the durable record created when a cart is validated. The API
// returns a denormalised snapshot of the event, sport and offer.
type Ticket struct {
	ID          int     `json:"id"`
	EventID     int     `json:"epreuve_id"`
	EventName   string  `json:"epreuve_nom"`
	SportName   string  `json:"sport_nom,omitempty"`
	Date        Date    `json:"date"`
	Time        string  `json:"heure,omitempty"`
	Venue       string  `json:"lieu,omitempty"`
	OfferID     int     `json:"offer_id"`
	OfferName   string  `json:"offer_nom"`
	UnitPrice   float64 `json:"prix_unitaire"`
	Places      int     `json:"nombre_places"`
	TotalPrice  float64 `json:"prix_total"`
	Status      string  `json:"statut,omitempty"`
	PurchasedAt Date    `json:"date_achat"`
	PurchaseKey string  `json:"clef_achat,omitempty"`
	QRCode      string  `json:"qr_code,omitempty"`
}

// Validate returns the name of the first required field that is missing
func (t *Ticket) Validate() string {
	if t.ID <= 0 {
		return "id"
	}
	return ""
}

// TicketDocument is a generated ticket file ready to be saved by the visitor
type TicketDocument struct {
	TicketID    int
	ContentType string
	Filename    string
	Data        []byte
}

// TicketFilename is the download name offered for a ticket document
func TicketFilename(ticketID int) string {
	return fmt.Sprintf("billet_paris2024_%d.pdf", ticketID)
}
