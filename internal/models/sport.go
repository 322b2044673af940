package models

import "strings"

// Sport is a catalog entry grouping one or more events. The listing endpoint
// returns sports without their events; the detail endpoint includes them.
type Sport struct {
	ID               int     `json:"id"`
	Slug             string  `json:"slug"`
	Name             string  `json:"nom"`
	Description      string  `json:"description"`
	Venue            string  `json:"lieu"`
	CompetitionDates string  `json:"dates_competition"`
	ImageURL         string  `json:"image_url"`
	History          string  `json:"histoire,omitempty"`
	Events           []Event `json:"epreuves,omitempty"`
}

// Validate returns the name of the first required field that is missing
func (s *Sport) Validate() string {
	if s.ID <= 0 {
		return "id"
	}
	if strings.TrimSpace(s.Slug) == "" {
		return "slug"
	}
	for i := range s.Events {
		if field := s.Events[i].Validate(); field != "" {
			return "epreuves." + field
		}
	}
	return ""
}

// Matches reports whether the query is a case-insensitive substring of the
// sport's name or venue. An empty query matches everything; spaces are
// matched as typed.
func (s *Sport) Matches(query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), q) ||
		strings.Contains(strings.ToLower(s.Venue), q)
}

// Event finds one of the sport's events by id
func (s *Sport) Event(id int) (*Event, bool) {
	for i := range s.Events {
		if s.Events[i].ID == id {
			return &s.Events[i], true
		}
	}
	return nil, false
}
