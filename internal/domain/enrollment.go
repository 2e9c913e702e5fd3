package domain

import "time"

// Enrollment status constants.
const (
	EnrollmentPending  = "pending"
	EnrollmentApproved = "approved"
	EnrollmentRejected = "rejected"
)

// Program constants for enrollment applications.
const (
	ProgramKids        = "kids"
	ProgramTeens       = "teens"
	ProgramAdults      = "adults"
	ProgramCompetition = "competition"
	ProgramInstructor  = "instructor"
)

// Referral source constants for enrollment applications.
const (
	ReferralFriend        = "friend"
	ReferralSocialMedia   = "social-media"
	ReferralSearchEngine  = "search-engine"
	ReferralEvent         = "event"
	ReferralAdvertisement = "advertisement"
	ReferralOther         = "other"
)

// Enrollment represents a membership application awaiting admin review.
type Enrollment struct {
	ID              string     `json:"id"`
	ReferenceNumber string     `json:"reference_number"`
	UserID          *string    `json:"user_id,omitempty"`
	FullName        string     `json:"full_name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	DateOfBirth     time.Time  `json:"date_of_birth"`
	Gender          string     `json:"gender,omitempty"`
	Program         string     `json:"program"`
	ExperienceLevel string     `json:"experience_level,omitempty"`
	CurrentBeltRank string     `json:"current_belt_rank,omitempty"`
	MedicalInfo     string     `json:"medical_info,omitempty"`
	HowDidYouHear   string     `json:"how_did_you_hear,omitempty"`
	EmergencyName   string     `json:"emergency_contact_name"`
	EmergencyPhone  string     `json:"emergency_contact_phone"`
	Status          string     `json:"status"`
	AdminNotes      string     `json:"admin_notes,omitempty"`
	ReviewedBy      *string    `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// IsValidEnrollmentStatus checks whether the given string is a valid status.
func IsValidEnrollmentStatus(s string) bool {
	switch s {
	case EnrollmentPending, EnrollmentApproved, EnrollmentRejected:
		return true
	}
	return false
}

// ValidPrograms returns the set of valid training programs.
func ValidPrograms() []string {
	return []string{ProgramKids, ProgramTeens, ProgramAdults, ProgramCompetition, ProgramInstructor}
}

// IsValidProgram checks whether the given string is a valid program.
func IsValidProgram(p string) bool {
	for _, v := range ValidPrograms() {
		if v == p {
			return true
		}
	}
	return false
}

// IsValidReferralSource checks whether the given string is a valid referral source.
func IsValidReferralSource(s string) bool {
	switch s {
	case ReferralFriend, ReferralSocialMedia, ReferralSearchEngine,
		ReferralEvent, ReferralAdvertisement, ReferralOther:
		return true
	}
	return false
}
