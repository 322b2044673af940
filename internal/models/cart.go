package models

// CartItem is a pending line in a user's cart. TotalPrice is computed by the API
// (offer price × places) and treated as opaque here.
type CartItem struct {
	ID         int     `json:"id"`
	EventID    int     `json:"epreuve_id"`
	OfferID    int     `json:"offer_id"`
	Places     int     `json:"nombre_places"`
	TotalPrice float64 `json:"prix_total"`

	// Denormalised details added by the API
	EventName string `json:"epreuve_nom,omitempty"`
	EventDate Date   `json:"date_epreuve"`
	EventTime string `json:"heure,omitempty"`
	SportName string `json:"sport_nom,omitempty"`
	OfferName string `json:"offer_nom,omitempty"`
}

// Validate returns the name of the first required field that is missing
func (c *CartItem) Validate() string {
	if c.ID <= 0 {
		return "id"
	}
	return ""
}

// CartAddition is the API's answer to an add-to-cart request
type CartAddition struct {
	Message    string  `json:"message"`
	ItemID     int     `json:"item_id"`
	TotalPrice float64 `json:"prix_total"`
}

// PurchasedTicket is one line of a cart validation receipt
type PurchasedTicket struct {
	TicketID  int     `json:"ticket_id"`
	EventName string  `json:"epreuve"`
	Price     float64 `json:"prix"`
}

// CartValidation is the API's answer to a checkout
type CartValidation struct {
	Message string            `json:"message"`
	Tickets []PurchasedTicket `json:"tickets"`
}

// RemoveCartItem returns items without the line identified by itemID
func RemoveCartItem(items []CartItem, itemID int) []CartItem {
	kept := make([]CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	return kept
}

// CartTotal sums each item's total price
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.TotalPrice
	}
	return total
}
