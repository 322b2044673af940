package models

// Event (épreuve) is a scheduled competition within a sport
type Event struct {
	ID              int    `json:"id"`
	Name            string `json:"nom_epreuve"`
	Date            Date   `json:"date_epreuve"`
	Time            string `json:"heure"`
	RemainingPlaces int    `json:"places_disponibles"`
}

// Validate returns the name of the first required field that is missing
func (e *Event) Validate() string {
	if e.ID <= 0 {
		return "id"
	}
	return ""
}

// SoldOut reports whether no places remain
func (e *Event) SoldOut() bool {
	return e.RemainingPlaces <= 0
}
