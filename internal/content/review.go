package content

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/creasty/defaults"

	"github.com/woozymasta/decksite/internal/schemas"
	"github.com/woozymasta/decksite/static"
)

// ReviewsCollection is the name of the reviews collection.
const ReviewsCollection = "reviews"

// DefaultReviewSource is used when a review does not name its source.
const DefaultReviewSource = "Google"

// Review is a validated customer review.
type Review struct {
	// Author is the display name of the reviewer.
	Author string `json:"author" jsonschema:"required,minLength=1,example=Jane Doe"`

	// Rating is the star rating from 1 to 5.
	Rating int `json:"rating" jsonschema:"required,minimum=1,maximum=5,example=5"`

	// Text is the review body.
	Text string `json:"text" jsonschema:"required,minLength=1"`

	// Date is when the review was published. Documents may give a date
	// string or epoch milliseconds.
	Date time.Time `json:"date" jsonschema:"required,example=2024-05-01T10:00:00Z"`

	// AvatarURL is an optional reviewer avatar, trimmed and lowercased. Nil
	// when absent or empty.
	AvatarURL *string `json:"avatarUrl,omitempty" jsonschema:"format=uri,example=https://example.com/avatar.png"`

	// Source is the platform the review was collected from.
	Source string `json:"source" jsonschema:"default=Google"`

	// VideoURL is an optional link to a video testimonial.
	VideoURL *string `json:"videoUrl,omitempty"`
}

// reviewDocument is the wire form of a review after transforms.
type reviewDocument struct {
	Author    string    `json:"author"`
	Rating    float64   `json:"rating"`
	Text      string    `json:"text"`
	Date      time.Time `json:"date"`
	AvatarURL *string   `json:"avatarUrl"`
	Source    *string   `json:"source" default:"Google"`
	VideoURL  *string   `json:"videoUrl"`
}

var reviewSchema = schemas.NewLazy(static.ReviewSchema, "embedded://review-schema", ErrSchemaLoad, schemas.Options{AssertFormat: true})

// NewReviews returns the reviews collection rooted at base.
func NewReviews(base, pattern string) *Collection[Review] {
	return &Collection[Review]{
		Name:      ReviewsCollection,
		Base:      base,
		Pattern:   pattern,
		schema:    reviewSchema,
		transform: transformReview,
		decode:    decodeReview,
	}
}

// transformReview normalizes avatarUrl and coerces date in place.
func transformReview(doc map[string]any) []FieldError {
	var problems []FieldError

	if v, ok := doc["avatarUrl"]; ok {
		if s, isString := v.(string); isString {
			if s == "" {
				delete(doc, "avatarUrl")
			} else {
				doc["avatarUrl"] = normalizeURL(s)
			}
		}
	}

	if v, ok := doc["date"]; ok {
		t, err := coerceDate(v)
		if err != nil {
			problems = append(problems, FieldError{Field: "/date", Message: err.Error()})
		} else {
			doc["date"] = t.Format(time.RFC3339Nano)
		}
	}

	return problems
}

func decodeReview(doc map[string]any) (Review, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return Review{}, fmt.Errorf("marshal review: %w", err)
	}

	var rd reviewDocument
	if err := json.Unmarshal(data, &rd); err != nil {
		return Review{}, fmt.Errorf("decode review: %w", err)
	}

	if err := defaults.Set(&rd); err != nil {
		return Review{}, fmt.Errorf("apply review defaults: %w", err)
	}

	return Review{
		Author:    rd.Author,
		Rating:    int(rd.Rating),
		Text:      rd.Text,
		Date:      rd.Date,
		AvatarURL: rd.AvatarURL,
		Source:    *rd.Source,
		VideoURL:  rd.VideoURL,
	}, nil
}
