package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      VARCHAR(80) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_admin      BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS posts (
		id           SERIAL PRIMARY KEY,
		title        VARCHAR(200) NOT NULL,
		slug         VARCHAR(240) UNIQUE NOT NULL CHECK (slug <> ''),
		content      TEXT NOT NULL,
		created_at   TIMESTAMP NOT NULL,
		image_path   VARCHAR(500),
		video_path   VARCHAR(500),
		publish_date DATE NOT NULL DEFAULT CURRENT_DATE
	);`,
	`CREATE INDEX IF NOT EXISTS idx_posts_publish_date ON posts (publish_date DESC, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS comments (
		id         SERIAL PRIMARY KEY,
		post_id    INTEGER NOT NULL REFERENCES posts (id) ON DELETE CASCADE,
		name       VARCHAR(80) NOT NULL,
		text       TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments (post_id);`,
	`CREATE INDEX IF NOT EXISTS idx_comments_created_at ON comments (created_at);`,
}

// Migrate creates the blog tables when they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	log.Debugf("db schema ready (%d statements)", len(schemaStatements))
	return nil
}
