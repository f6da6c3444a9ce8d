package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a rated submission owned by exactly one user. The author fields
// are a snapshot taken at submission time.
type Feedback struct {
	ID        string
	Title     string
	Content   string
	Rating    int
	ImageURL  string // empty when no image was attached
	Response  string // empty until an administrator responds
	UserID    string
	UserName  string
	UserEmail string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// HasResponse reports whether an administrator has answered.
func (f *Feedback) HasResponse() bool {
	return f.Response != ""
}

// ValidRating reports whether r is within the accepted star range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// FeedbackSort selects the creation-time ordering of a listing.
type FeedbackSort string

const (
	SortNewest FeedbackSort = "newest"
	SortOldest FeedbackSort = "oldest"
)
