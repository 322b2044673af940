package models

import "fmt"

// Offer is a purchasable ticket tier (Solo, Duo, Famille), independent of any event.
type Offer struct {
	ID          int     `json:"id"`
	Name        string  `json:"nom_offre"`
	Description string  `json:"description"`
	Price       float64 `json:"prix"`
	Capacity    int     `json:"capacite_personne"`
}

// Validate returns the name of the first required field that is missing
func (o *Offer) Validate() string {
	if o.ID <= 0 {
		return "id"
	}
	return ""
}

// FindOffer returns the offer with the given id
func FindOffer(offers []Offer, id int) (*Offer, bool) {
	for i := range offers {
		if offers[i].ID == id {
			return &offers[i], true
		}
	}
	return nil, false
}

// FormatEuros renders an amount as "125.50 €"
func FormatEuros(amount float64) string {
	return fmt.Sprintf("%.2f €", amount)
}
