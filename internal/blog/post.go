package blog

import (
	"errors"
	"time"
)

const (
	MaxTitleLength       = 200
	MaxCommentNameLength = 80
	MaxCommentTextLength = 4000

	commentTimeLayout = "2006-01-02 15:04 UTC"
)

var (
	ErrPostNotFound        = errors.New("post not found")
	ErrTitleOrContentEmpty = errors.New("title and content are required")
	ErrTitleTooLong        = errors.New("title too long")
	ErrCommentFieldsEmpty  = errors.New("comment name and text are required")
	ErrCommentTooLong      = errors.New("comment too long")
)

type Post struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	ImagePath   string    `json:"image_path,omitempty"` // relative to the upload root, empty if none
	VideoPath   string    `json:"video_path,omitempty"`
	PublishDate time.Time `json:"publish_date"` // calendar date, UTC midnight
}

// IsToday reports whether the post was published on the UTC calendar day of now.
func (p *Post) IsToday(now time.Time) bool {
	return Date(p.PublishDate).Equal(Date(now))
}

type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) CreatedAtDisplay() string {
	return c.CreatedAt.UTC().Format(commentTimeLayout)
}

// Date truncates t to its UTC calendar date.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from -> to.
func DaysBetween(from, to time.Time) int {
	return int(Date(to).Sub(Date(from)).Hours() / 24)
}
