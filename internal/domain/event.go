package domain

import (
	"time"
)

// Event type constants.
const (
	EventTournament    = "tournament"
	EventSeminar       = "seminar"
	EventBeltTest      = "belt-test"
	EventTrainingCamp  = "training-camp"
	EventWorkshop      = "workshop"
	EventDemonstration = "demonstration"
	EventOther         = "other"
)

// Event represents a federation event such as a tournament or seminar.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EventType   string `json:"event_type"`

	Address      string `json:"address,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	VenueDetails string `json:"venue_details,omitempty"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	StartTime string    `json:"start_time,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`

	BeltRanks []string `json:"belt_ranks,omitempty"`
	AgeGroups []string `json:"age_groups,omitempty"`

	RegistrationRequired bool       `json:"registration_required"`
	RegistrationLink     string     `json:"registration_link,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	FeeAmount            *float64   `json:"fee_amount,omitempty"`
	FeeCurrency          string     `json:"fee_currency,omitempty"`

	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`

	Image     string    `json:"image,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidEventTypes returns the set of valid event types.
func ValidEventTypes() []string {
	return []string{
		EventTournament, EventSeminar, EventBeltTest, EventTrainingCamp,
		EventWorkshop, EventDemonstration, EventOther,
	}
}

// IsValidEventType checks whether the given string is a valid event type.
func IsValidEventType(t string) bool {
	for _, v := range ValidEventTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// Age group constants for event eligibility.
const (
	AgeGroupKids    = "kids"
	AgeGroupTeens   = "teens"
	AgeGroupAdults  = "adults"
	AgeGroupSeniors = "seniors"
	AgeGroupAll     = "all"
)

// IsValidAgeGroup checks whether the given string is a valid age group.
func IsValidAgeGroup(g string) bool {
	switch g {
	case AgeGroupKids, AgeGroupTeens, AgeGroupAdults, AgeGroupSeniors, AgeGroupAll:
		return true
	}
	return false
}
