package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEnrollmentStatus(t *testing.T) {
	assert.True(t, IsValidEnrollmentStatus(EnrollmentPending))
	assert.True(t, IsValidEnrollmentStatus(EnrollmentApproved))
	assert.True(t, IsValidEnrollmentStatus(EnrollmentRejected))
	assert.False(t, IsValidEnrollmentStatus("cancelled"))
	assert.False(t, IsValidEnrollmentStatus(""))
	assert.False(t, IsValidEnrollmentStatus("Pending"))
}

func TestIsValidProgram(t *testing.T) {
	for _, p := range ValidPrograms() {
		assert.True(t, IsValidProgram(p), "expected %q to be valid", p)
	}
	assert.False(t, IsValidProgram("masters"))
	assert.False(t, IsValidProgram(""))
}

func TestIsValidEventType(t *testing.T) {
	for _, et := range ValidEventTypes() {
		assert.True(t, IsValidEventType(et), "expected %q to be valid", et)
	}
	assert.False(t, IsValidEventType("party"))
	assert.False(t, IsValidEventType(""))
}

func TestIsValidGalleryCategory(t *testing.T) {
	for _, c := range ValidGalleryCategories() {
		assert.True(t, IsValidGalleryCategory(c), "expected %q to be valid", c)
	}
	assert.False(t, IsValidGalleryCategory("memes"))
	assert.False(t, IsValidGalleryCategory(""))
}

func TestIsValidMediaType(t *testing.T) {
	assert.True(t, IsValidMediaType(MediaImage))
	assert.True(t, IsValidMediaType(MediaVideo))
	assert.False(t, IsValidMediaType("audio"))
}

func TestIsValidContactStatus(t *testing.T) {
	assert.True(t, IsValidContactStatus(ContactNew))
	assert.True(t, IsValidContactStatus(ContactRead))
	assert.True(t, IsValidContactStatus(ContactReplied))
	assert.True(t, IsValidContactStatus(ContactClosed))
	assert.False(t, IsValidContactStatus("archived"))
}
