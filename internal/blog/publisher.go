package blog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/weeklyblog/internal/telemetry/metrics"
	"github.com/2beens/weeklyblog/internal/telemetry/tracing"
	"github.com/2beens/weeklyblog/internal/uploads"
)

//go:generate mockgen -source=$GOFILE -destination=publisher_mocks_test.go -package=blog_test

type postsRepo interface {
	LatestPost(ctx context.Context) (*Post, error)
	PublishPost(ctx context.Context, post *Post, check func(latest *Post) error) error
}

type uploadStore interface {
	Validate(filename string, kind uploads.Kind) (string, error)
	Save(ctx context.Context, r io.Reader, filename string, kind uploads.Kind) (string, error)
	Remove(relPath string) error
}

// Upload is an optional media file attached to a new post.
type Upload struct {
	Filename string
	File     io.Reader
}

type NewPostRequest struct {
	Title   string `validate:"required,max=200"`
	Content string `validate:"required"`
	Image   *Upload `validate:"-"`
	Video   *Upload `validate:"-"`
}

type Publisher struct {
	repo           postsRepo
	uploads        uploadStore
	rule           PublishRule
	validate       *validator.Validate
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewPublisher(
	repo postsRepo,
	uploadStore uploadStore,
	metricsManager *metrics.Manager,
) *Publisher {
	return &Publisher{
		repo:           repo,
		uploads:        uploadStore,
		rule:           NewPublishRule(),
		validate:       newValidator(),
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// Publish validates the request, checks the weekly posting rule, stores the uploads
// and inserts the post. Nothing is written when validation or the rule check fails.
func (p *Publisher) Publish(ctx context.Context, req NewPostRequest) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.blog.publish")
	defer tracing.EndSpanWithErrCheck(span, &err)

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := p.validateRequest(req); err != nil {
		return nil, err
	}

	attachments := req.attachments()
	for _, a := range attachments {
		if _, err := p.uploads.Validate(a.upload.Filename, a.kind); err != nil {
			return nil, err
		}
	}

	now := p.now().UTC()
	today := Date(now)

	latest, err := p.repo.LatestPost(ctx)
	if err != nil && !errors.Is(err, ErrPostNotFound) {
		return nil, fmt.Errorf("get latest post: %w", err)
	}
	if err := p.rule.Check(today, latest); err != nil {
		p.countRejected(err)
		return nil, err
	}

	post := &Post{
		Title:       req.Title,
		Content:     req.Content,
		CreatedAt:   now,
		PublishDate: today,
	}

	var saved []string
	defer func() {
		if err == nil {
			return
		}
		for _, relPath := range saved {
			if rmErr := p.uploads.Remove(relPath); rmErr != nil {
				log.Errorf("publish, cleanup upload %s: %s", relPath, rmErr)
			}
		}
	}()

	for _, a := range attachments {
		relPath, err := p.uploads.Save(ctx, a.upload.File, a.upload.Filename, a.kind)
		if err != nil {
			return nil, fmt.Errorf("save %s upload: %w", a.kind, err)
		}
		saved = append(saved, relPath)
		switch a.kind {
		case uploads.KindImage:
			post.ImagePath = relPath
		case uploads.KindVideo:
			post.VideoPath = relPath
		}
	}

	if err := p.repo.PublishPost(ctx, post, func(latest *Post) error {
		return p.rule.Check(today, latest)
	}); err != nil {
		p.countRejected(err)
		return nil, fmt.Errorf("publish post: %w", err)
	}

	if p.metricsManager != nil {
		p.metricsManager.CounterPostsPublished.Inc()
	}
	log.Infof("post %d [%s] published", post.ID, post.Slug)

	return post, nil
}

func (p *Publisher) validateRequest(req NewPostRequest) error {
	err := p.validate.Struct(req)
	if err == nil {
		return nil
	}

	failed := failedTags(err)
	switch {
	case hasTag(failed, "required"):
		return ErrTitleOrContentEmpty
	case failed["Title"] == "max":
		return ErrTitleTooLong
	default:
		return fmt.Errorf("validate post: %w", err)
	}
}

func (p *Publisher) countRejected(err error) {
	var lockedErr *PublishLockedError
	if p.metricsManager != nil && errors.As(err, &lockedErr) {
		p.metricsManager.CounterPublishRejected.Inc()
	}
}

type attachment struct {
	kind   uploads.Kind
	upload *Upload
}

func (req NewPostRequest) attachments() []attachment {
	var list []attachment
	if req.Image != nil && req.Image.Filename != "" {
		list = append(list, attachment{kind: uploads.KindImage, upload: req.Image})
	}
	if req.Video != nil && req.Video.Filename != "" {
		list = append(list, attachment{kind: uploads.KindVideo, upload: req.Video})
	}
	return list
}
