package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ekrukov/shortly/internal/database"
	"github.com/ekrukov/shortly/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	// ErrAliasExhausted is returned when the maximum number of retries for
	// generating a unique alias is exceeded.
	ErrAliasExhausted = errors.New("maximum retries exceeded for generating alias")
	// ErrExpirationInPast is returned when a link is created with an
	// expiration date that isn't strictly in the future.
	ErrExpirationInPast = errors.New("expiration date must be in the future")
)

// LinkRepository defines the interface for working with links at the business logic layer.
type LinkRepository interface {
	// Create inserts a new link. A colliding alias is reported as
	// database.ErrAliasExists by the store itself, never via a pre-check.
	Create(ctx context.Context, alias, originalURL string, userID int64, expiresAt *time.Time) (*models.Link, error)

	// ResolveAlias fetches a link for redirecting and atomically records the
	// visit. Reports database.ErrLinkNotFound or database.ErrLinkExpired.
	ResolveAlias(ctx context.Context, alias string) (*models.Link, error)

	// ListByUser returns a page of the user's links plus the filtered total.
	ListByUser(ctx context.Context, userID int64, filter database.LinkFilter) ([]*models.Link, int64, error)

	// Update applies a partial update to a link owned by the user.
	Update(ctx context.Context, userID int64, alias string, patch database.LinkPatch) (*models.Link, error)

	// Delete removes a link owned by the user.
	Delete(ctx context.Context, userID int64, alias string) error
}

// LinkService orchestrates the lifecycle of short links on behalf of their
// owners and resolves aliases on the public redirect path.
type LinkService struct {
	repo        LinkRepository
	aliasLength int
	now         func() time.Time
}

// NewLinkService creates a new LinkService with the provided repository and
// generated-alias length.
func NewLinkService(repo LinkRepository, aliasLength int) *LinkService {
	return &LinkService{
		repo:        repo,
		aliasLength: aliasLength,
		now:         time.Now,
	}
}

// ShortenURL creates a link for the given user. When customAlias is empty an
// alias is generated, retrying on collision up to a small bound; a custom
// alias that is already taken fails with database.ErrAliasExists.
func (s *LinkService) ShortenURL(ctx context.Context, userID int64, originalURL, customAlias string, expiresAt *time.Time) (*models.Link, error) {
	const op = "service.LinkService.ShortenURL"
	const maxRetries = 5

	if expiresAt != nil && !expiresAt.After(s.now()) {
		return nil, fmt.Errorf("%s: %w", op, ErrExpirationInPast)
	}

	if customAlias != "" {
		link, err := s.repo.Create(ctx, customAlias, originalURL, userID, expiresAt)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to create link: %w", op, err)
		}

		return link, nil
	}

	for i := 0; i < maxRetries; i++ {
		alias, err := gonanoid.New(s.aliasLength)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate alias: %w", op, err)
		}

		link, err := s.repo.Create(ctx, alias, originalURL, userID, expiresAt)
		if err != nil {
			if errors.Is(err, database.ErrAliasExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to create link: %w", op, err)
		}

		return link, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrAliasExhausted)
}

// ResolveAlias translates an alias into a redirect target, recording the
// visit. The target is normalized to carry a scheme so it is usable as a
// Location header.
func (s *LinkService) ResolveAlias(ctx context.Context, alias string) (string, error) {
	const op = "service.LinkService.ResolveAlias"

	link, err := s.repo.ResolveAlias(ctx, alias)
	if err != nil {
		return "", fmt.Errorf("%s: failed to resolve alias: %w", op, err)
	}

	return normalizeURL(link.OriginalURL), nil
}

// ListURLs returns a page of the user's links and the filtered total.
func (s *LinkService) ListURLs(ctx context.Context, userID int64, filter database.LinkFilter) ([]*models.Link, int64, error) {
	const op = "service.LinkService.ListURLs"

	links, total, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	return links, total, nil
}

// ModifyURL applies a partial update to a link owned by the user.
// A link not owned by the user is indistinguishable from an absent one.
func (s *LinkService) ModifyURL(ctx context.Context, userID int64, alias string, patch database.LinkPatch) (*models.Link, error) {
	const op = "service.LinkService.ModifyURL"

	link, err := s.repo.Update(ctx, userID, alias, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to modify link: %w", op, err)
	}

	return link, nil
}

// DeleteURL removes a link owned by the user.
func (s *LinkService) DeleteURL(ctx context.Context, userID int64, alias string) error {
	const op = "service.LinkService.DeleteURL"

	err := s.repo.Delete(ctx, userID, alias)
	if err != nil {
		return fmt.Errorf("%s: failed to delete link: %w", op, err)
	}

	return nil
}

// normalizeURL prepends a default scheme when the stored target lacks one,
// so bare hosts like "example.com" still redirect.
func normalizeURL(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}

	return "http://" + rawURL
}
