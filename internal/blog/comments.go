package blog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/weeklyblog/internal/telemetry/metrics"
	"github.com/2beens/weeklyblog/internal/telemetry/tracing"
)

// CommentsPageSize is used both for the first rendered page and for every incremental fetch.
const CommentsPageSize = 10

//go:generate mockgen -source=$GOFILE -destination=comments_mocks_test.go -package=blog_test

type commentsRepo interface {
	AddComment(ctx context.Context, comment *Comment) error
	CommentsCount(ctx context.Context, postID int) (int, error)
	CommentsPage(ctx context.Context, postID, offset, limit int) ([]*Comment, error)
}

type NewCommentRequest struct {
	Name string `validate:"required,max=80"`
	Text string `validate:"required,max=4000"`
}

type CommentsPage struct {
	Comments   []*Comment
	NextOffset int
	HasMore    bool
	Total      int
}

type CommentsService struct {
	repo           commentsRepo
	validate       *validator.Validate
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewCommentsService(repo commentsRepo, metricsManager *metrics.Manager) *CommentsService {
	return &CommentsService{
		repo:           repo,
		validate:       newValidator(),
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// List returns one page of the post comments, newest first, starting at offset.
func (s *CommentsService) List(ctx context.Context, postID, offset int) (_ CommentsPage, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.blog.comments.list")
	span.SetAttributes(attribute.Int("post_id", postID), attribute.Int("offset", offset))
	defer tracing.EndSpanWithErrCheck(span, &err)

	if offset < 0 {
		offset = 0
	}

	total, err := s.repo.CommentsCount(ctx, postID)
	if err != nil {
		return CommentsPage{}, fmt.Errorf("count comments: %w", err)
	}

	comments, err := s.repo.CommentsPage(ctx, postID, offset, CommentsPageSize)
	if err != nil {
		return CommentsPage{}, fmt.Errorf("get comments page: %w", err)
	}
	if comments == nil {
		comments = []*Comment{}
	}

	nextOffset := offset + len(comments)
	return CommentsPage{
		Comments:   comments,
		NextOffset: nextOffset,
		HasMore:    nextOffset < total,
		Total:      total,
	}, nil
}

// Add validates and stores a new comment on the post.
func (s *CommentsService) Add(ctx context.Context, postID int, req NewCommentRequest) (_ *Comment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.blog.comments.add")
	span.SetAttributes(attribute.Int("post_id", postID))
	defer tracing.EndSpanWithErrCheck(span, &err)

	req.Name = strings.TrimSpace(req.Name)
	req.Text = strings.TrimSpace(req.Text)

	if err := s.validate.Struct(req); err != nil {
		failed := failedTags(err)
		switch {
		case hasTag(failed, "required"):
			return nil, ErrCommentFieldsEmpty
		case hasTag(failed, "max"):
			return nil, ErrCommentTooLong
		default:
			return nil, fmt.Errorf("validate comment: %w", err)
		}
	}

	comment := &Comment{
		PostID:    postID,
		Name:      req.Name,
		Text:      req.Text,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterCommentsAdded.Inc()
	}

	return comment, nil
}

// ParseOffset parses the offset query value, falling back to 0 for invalid or negative values.
func ParseOffset(raw string) int {
	offset, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}
