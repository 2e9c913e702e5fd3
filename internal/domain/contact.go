package domain

import "time"

// Contact status constants.
const (
	ContactNew     = "new"
	ContactRead    = "read"
	ContactReplied = "replied"
	ContactClosed  = "closed"
)

// Enquiry type constants for contact submissions.
const (
	EnquiryGeneral    = "general"
	EnquiryMembership = "membership"
	EnquiryEvents     = "events"
	EnquiryClasses    = "classes"
	EnquiryOther      = "other"
)

// Contact represents a message submitted through the contact form.
type Contact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	EnquiryType string `json:"enquiry_type"`
	Status      string `json:"status"`

	// RespondedBy and ResponseDate are stamped when an admin replies to
	// or closes the message.
	RespondedBy  *string    `json:"responded_by,omitempty"`
	ResponseDate *time.Time `json:"response_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// IsValidContactStatus checks whether the given string is a valid contact status.
func IsValidContactStatus(s string) bool {
	switch s {
	case ContactNew, ContactRead, ContactReplied, ContactClosed:
		return true
	}
	return false
}

// IsValidEnquiryType checks whether the given string is a valid enquiry type.
func IsValidEnquiryType(t string) bool {
	switch t {
	case EnquiryGeneral, EnquiryMembership, EnquiryEvents, EnquiryClasses, EnquiryOther:
		return true
	}
	return false
}
