package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/weeklyblog/internal/telemetry/tracing"
	"github.com/2beens/weeklyblog/pkg"
)

const (
	// key for pg_advisory_xact_lock, serializes concurrent publishes
	publishLockKey  int64 = 7_700_501
	maxSlugAttempts       = 5
	slugConstraint        = "posts_slug_key"

	postColumns    = `id, title, slug, content, created_at, image_path, video_path, publish_date`
	commentColumns = `id, post_id, name, text, created_at`
)

var (
	_ postsRepo    = (*Repo)(nil)
	_ commentsRepo = (*Repo)(nil)
	_ pageRepo     = (*Repo)(nil)
)

// querier is implemented by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) PostBySlug(ctx context.Context, slug string) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.PostBySlug")
	span.SetAttributes(attribute.String("slug", slug))
	defer tracing.EndSpanWithErrCheck(span, &err)

	return scanPost(r.db.QueryRow(
		ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = $1;`,
		slug,
	))
}

func (r *Repo) SlugExists(ctx context.Context, slug string) (bool, error) {
	return slugExists(ctx, r.db, slug)
}

// LatestPost returns the post with the most recent publish date (then creation time).
func (r *Repo) LatestPost(ctx context.Context) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.LatestPost")
	defer tracing.EndSpanWithErrCheck(span, &err)

	return latestPost(ctx, r.db)
}

// TodaysPost returns the latest post published on the calendar date of today.
func (r *Repo) TodaysPost(ctx context.Context, today time.Time) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.TodaysPost")
	defer tracing.EndSpanWithErrCheck(span, &err)

	return scanPost(r.db.QueryRow(
		ctx,
		`
			SELECT `+postColumns+` FROM posts
			WHERE publish_date = $1
			ORDER BY created_at DESC
			LIMIT 1;
		`,
		Date(today),
	))
}

// RecentPosts returns posts published within the last days before today, today excluded.
func (r *Repo) RecentPosts(ctx context.Context, today time.Time, days int) (_ []*Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.RecentPosts")
	span.SetAttributes(attribute.Int("days", days))
	defer tracing.EndSpanWithErrCheck(span, &err)

	day := Date(today)
	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+postColumns+` FROM posts
			WHERE publish_date >= $1 AND publish_date <> $2
			ORDER BY publish_date DESC, created_at DESC;
		`,
		day.AddDate(0, 0, -days), day,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2posts(rows)
}

func (r *Repo) AllPosts(ctx context.Context) (_ []*Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.AllPosts")
	defer tracing.EndSpanWithErrCheck(span, &err)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY publish_date DESC, created_at DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2posts(rows)
}

// PublishPost inserts the post inside a transaction holding the publish advisory lock.
// check is called with the latest post (nil if none) seen inside the transaction, and a
// non nil error from it aborts the insert. The slug is derived from the title, and the
// next free suffix is tried when a concurrent insert took it.
func (r *Repo) PublishPost(ctx context.Context, post *Post, check func(latest *Post) error) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.PublishPost")
	defer tracing.EndSpanWithErrCheck(span, &err)

	if post.Title == "" || post.Content == "" {
		return ErrTitleOrContentEmpty
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Errorf("publish post, rollback: %s", rbErr)
			}
		}
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1);`, publishLockKey); err != nil {
		return fmt.Errorf("acquire publish lock: %w", err)
	}

	latest, err := latestPost(ctx, tx)
	if err != nil && !errors.Is(err, ErrPostNotFound) {
		return fmt.Errorf("get latest post: %w", err)
	}
	if check != nil {
		if err := check(latest); err != nil {
			return err
		}
	}

	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	post.CreatedAt = post.CreatedAt.UTC()
	if post.PublishDate.IsZero() {
		post.PublishDate = post.CreatedAt
	}
	post.PublishDate = Date(post.PublishDate)

	base := Slugify(post.Title)
	startAt := 1
	for attempt := 1; ; attempt++ {
		slug, n, err := nextFreeSlug(ctx, txSlugProber{tx: tx}, base, startAt)
		if err != nil {
			return err
		}

		id, err := insertPost(ctx, tx, post, slug)
		if err == nil {
			post.ID = id
			post.Slug = slug
			break
		}
		if !pkg.IsUniqueViolationOn(err, slugConstraint) || attempt >= maxSlugAttempts {
			return fmt.Errorf("insert post: %w", err)
		}

		log.Warnf("publish post, slug [%s] taken concurrently, retrying", slug)
		startAt = n + 1
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// DeletePost removes the post together with its comments (cascade).
func (r *Repo) DeletePost(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *Repo) AddComment(ctx context.Context, comment *Comment) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.AddComment")
	span.SetAttributes(attribute.Int("post_id", comment.PostID))
	defer tracing.EndSpanWithErrCheck(span, &err)

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	comment.CreatedAt = comment.CreatedAt.UTC()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO comments (post_id, name, text, created_at) VALUES ($1, $2, $3, $4) RETURNING id;`,
		comment.PostID, comment.Name, comment.Text, comment.CreatedAt,
	).Scan(&comment.ID)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrPostNotFound
		}
		return err
	}

	return nil
}

func (r *Repo) CommentsCount(ctx context.Context, postID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.CommentsCount")
	span.SetAttributes(attribute.Int("post_id", postID))
	defer tracing.EndSpanWithErrCheck(span, &err)

	var count int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM comments WHERE post_id = $1;`,
		postID,
	).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

// CommentsPage returns up to limit comments of the post, newest first.
func (r *Repo) CommentsPage(ctx context.Context, postID, offset, limit int) (_ []*Comment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.CommentsPage")
	span.SetAttributes(
		attribute.Int("post_id", postID),
		attribute.Int("offset", offset),
		attribute.Int("limit", limit),
	)
	defer tracing.EndSpanWithErrCheck(span, &err)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+commentColumns+` FROM comments
			WHERE post_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
			OFFSET $3;
		`,
		postID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		c := &Comment{}
		if err := rows.Scan(&c.ID, &c.PostID, &c.Name, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.CreatedAt = c.CreatedAt.UTC()
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func slugExists(ctx context.Context, q querier, slug string) (bool, error) {
	var exists bool
	if err := q.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1);`,
		slug,
	).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func latestPost(ctx context.Context, q querier) (*Post, error) {
	return scanPost(q.QueryRow(
		ctx,
		`
			SELECT `+postColumns+` FROM posts
			ORDER BY publish_date DESC, created_at DESC
			LIMIT 1;
		`,
	))
}

// insertPost runs in a savepoint, so a unique violation leaves the outer tx usable.
func insertPost(ctx context.Context, tx pgx.Tx, post *Post, slug string) (int, error) {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return 0, err
	}

	var id int
	err = sp.QueryRow(
		ctx,
		`
			INSERT INTO posts (title, slug, content, created_at, image_path, video_path, publish_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id;
		`,
		post.Title, slug, post.Content, post.CreatedAt,
		nullableString(post.ImagePath), nullableString(post.VideoPath),
		post.PublishDate,
	).Scan(&id)
	if err != nil {
		_ = sp.Rollback(ctx)
		return 0, err
	}

	if err := sp.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

// txSlugProber checks slugs within a running transaction
type txSlugProber struct {
	tx pgx.Tx
}

func (p txSlugProber) SlugExists(ctx context.Context, slug string) (bool, error) {
	return slugExists(ctx, p.tx, slug)
}

func scanPost(row pgx.Row) (*Post, error) {
	p := &Post{}
	var imagePath, videoPath *string
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.CreatedAt,
		&imagePath, &videoPath, &p.PublishDate,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	normalizePost(p, imagePath, videoPath)
	return p, nil
}

func rows2posts(rows pgx.Rows) ([]*Post, error) {
	posts := []*Post{}
	for rows.Next() {
		p := &Post{}
		var imagePath, videoPath *string
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Content, &p.CreatedAt,
			&imagePath, &videoPath, &p.PublishDate,
		); err != nil {
			return nil, err
		}
		normalizePost(p, imagePath, videoPath)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func normalizePost(p *Post, imagePath, videoPath *string) {
	if imagePath != nil {
		p.ImagePath = *imagePath
	}
	if videoPath != nil {
		p.VideoPath = *videoPath
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.PublishDate = Date(p.PublishDate)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
