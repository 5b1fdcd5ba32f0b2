package blog

import (
	"errors"
	"fmt"

	"github.com/2beens/weeklyblog/internal/uploads"
)

// FlashMessage maps a validation or rule error to the message shown to the user.
// The second return value is false for unexpected errors.
func FlashMessage(err error) (string, bool) {
	var lockedErr *PublishLockedError
	var fileTypeErr *uploads.FileTypeError
	switch {
	case errors.Is(err, ErrCommentFieldsEmpty):
		return "Please enter your name and a comment.", true
	case errors.Is(err, ErrCommentTooLong):
		return "Comment too long.", true
	case errors.Is(err, ErrTitleOrContentEmpty):
		return "Title and content are required.", true
	case errors.Is(err, ErrTitleTooLong):
		return fmt.Sprintf("Title too long (max %d characters).", MaxTitleLength), true
	case errors.As(err, &lockedErr):
		return fmt.Sprintf("Posting is locked. Next post allowed in %d day(s).", lockedErr.DaysRemaining), true
	case errors.Is(err, uploads.ErrInvalidFilename):
		return "Invalid filename", true
	case errors.As(err, &fileTypeErr):
		return fmt.Sprintf("File type not allowed for %s: %s", fileTypeErr.Kind, fileTypeErr.Filename), true
	case errors.Is(err, ErrPostNotFound):
		return "Post not found.", true
	default:
		return "", false
	}
}
