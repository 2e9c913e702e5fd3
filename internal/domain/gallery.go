package domain

import "time"

// Gallery category constants.
const (
	GalleryTournaments   = "tournaments"
	GallerySeminars      = "seminars"
	GalleryBeltTests     = "belt-tests"
	GalleryTraining      = "training"
	GalleryDemonstration = "demonstrations"
	GalleryOther         = "other"
)

// GalleryItem represents a photo or video published in the federation gallery.
// Videos carry a ThumbnailURL for listings; EventID links the item to the
// event it was captured at.
type GalleryItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category"`
	MediaURL     string    `json:"media_url"`
	MediaType    string    `json:"media_type"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	EventID      *string   `json:"event_id,omitempty"`
	IsPublic     bool      `json:"is_public"`
	UploadedBy   string    `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// Media type constants for gallery items.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// ValidGalleryCategories returns the set of valid gallery categories.
func ValidGalleryCategories() []string {
	return []string{
		GalleryTournaments, GallerySeminars, GalleryBeltTests,
		GalleryTraining, GalleryDemonstration, GalleryOther,
	}
}

// IsValidGalleryCategory checks whether the given string is a valid category.
func IsValidGalleryCategory(c string) bool {
	for _, v := range ValidGalleryCategories() {
		if v == c {
			return true
		}
	}
	return false
}

// IsValidMediaType checks whether the given string is a valid media type.
func IsValidMediaType(t string) bool {
	return t == MediaImage || t == MediaVideo
}
