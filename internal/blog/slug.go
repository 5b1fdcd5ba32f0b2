package blog

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

const defaultSlug = "post"

type slugProber interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Slugify turns a post title into a URL safe slug built of [a-z0-9-].
func Slugify(title string) string {
	title = strings.TrimSpace(strings.ToLower(title))

	var sb strings.Builder
	pendingSep := false
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingSep = false
			sb.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingSep = true
		default:
			// dropped, does not break a word
		}
	}

	if sb.Len() == 0 {
		return defaultSlug
	}
	return sb.String()
}

// slugCandidate returns the n-th candidate for base: base, base-2, base-3 ...
func slugCandidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

// MakeUniqueSlug returns the first free slug for title, probing the store.
func MakeUniqueSlug(ctx context.Context, prober slugProber, title string) (string, error) {
	slug, _, err := nextFreeSlug(ctx, prober, Slugify(title), 1)
	return slug, err
}

// nextFreeSlug probes candidates of base starting with the startAt-th one,
// and returns the first free slug together with its candidate number.
func nextFreeSlug(ctx context.Context, prober slugProber, base string, startAt int) (string, int, error) {
	for n := startAt; ; n++ {
		candidate := slugCandidate(base, n)
		exists, err := prober.SlugExists(ctx, candidate)
		if err != nil {
			return "", 0, fmt.Errorf("check slug %s: %w", candidate, err)
		}
		if !exists {
			return candidate, n, nil
		}
	}
}
