package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ekrukov/shortly/internal/database"
	"github.com/ekrukov/shortly/internal/models"
)

type linkRecord struct {
	ID          int64      `db:"id"`
	Alias       string     `db:"alias"`
	OriginalURL string     `db:"original_url"`
	UserID      int64      `db:"user_id"`
	VisitCount  int64      `db:"visit_count"`
	CreatedAt   time.Time  `db:"created_at"`
	ExpiresAt   *time.Time `db:"expires_at"`
}

func (r *linkRecord) toModel() *models.Link {
	return &models.Link{
		ID:          r.ID,
		Alias:       r.Alias,
		OriginalURL: r.OriginalURL,
		UserID:      r.UserID,
		VisitCount:  r.VisitCount,
		CreatedAt:   r.CreatedAt,
		ExpiresAt:   r.ExpiresAt,
	}
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create inserts a new link record. Alias uniqueness is enforced by the
// database, so a concurrent insert of the same alias surfaces as
// database.ErrAliasExists rather than being checked beforehand.
func (r *LinkRepository) Create(ctx context.Context, alias, originalURL string, userID int64, expiresAt *time.Time) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.Create"

	rec := new(linkRecord)
	query := `INSERT INTO links(alias, original_url, user_id, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, alias, originalURL, userID, expiresAt)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrAliasExists)
		}

		return nil, fmt.Errorf("%s: failed to create link record: %w", op, err)
	}

	return rec.toModel(), nil
}

// GetByAlias retrieves a link without touching its visit counter.
func (r *LinkRepository) GetByAlias(ctx context.Context, alias string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.GetByAlias"

	rec := new(linkRecord)
	query := `SELECT * FROM links WHERE alias = $1`

	err := r.db.GetContext(ctx, rec, query, alias)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get link record: %w", op, err)
	}

	return rec.toModel(), nil
}

// ResolveAlias looks up a link for redirecting and records the visit.
// The expiry check and the counter increment run in a single statement
// against the database clock, so concurrent visits never lose increments
// and an expired link is never counted.
func (r *LinkRepository) ResolveAlias(ctx context.Context, alias string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.ResolveAlias"

	rec := new(linkRecord)
	query := `UPDATE links
		SET visit_count = visit_count + 1
		WHERE alias = $1 AND (expires_at IS NULL OR expires_at > now())
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, alias)
	if err == nil {
		return rec.toModel(), nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: failed to resolve link record: %w", op, err)
	}

	// The guarded update missed: the alias is either absent or expired.
	if _, err := r.GetByAlias(ctx, alias); err != nil {
		return nil, err
	}

	return nil, fmt.Errorf("%s: %w", op, database.ErrLinkExpired)
}

// ListByUser returns a page of the user's links ordered by creation time,
// most recent first, along with the total number of links matching the
// filter regardless of pagination.
func (r *LinkRepository) ListByUser(ctx context.Context, userID int64, filter database.LinkFilter) ([]*models.Link, int64, error) {
	const op = "database.postgres.LinkRepository.ListByUser"

	where := []string{"user_id = $1"}
	args := []any{userID}

	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	switch filter.Status {
	case database.StatusExpired:
		where = append(where, "expires_at IS NOT NULL AND expires_at <= now()")
	case database.StatusActive:
		where = append(where, "(expires_at IS NULL OR expires_at > now())")
	}

	cond := strings.Join(where, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT count(*) FROM links WHERE %s`, cond)

	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to count link records: %w", op, err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT * FROM links
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, cond, len(args)-1, len(args))

	var recs []linkRecord

	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to list link records: %w", op, err)
	}

	links := make([]*models.Link, 0, len(recs))
	for i := range recs {
		links = append(links, recs[i].toModel())
	}

	return links, total, nil
}

// Update applies a partial update to a link owned by the given user.
// Renaming to a taken alias surfaces as database.ErrAliasExists via the
// unique index, in the same statement that applies the change.
func (r *LinkRepository) Update(ctx context.Context, userID int64, alias string, patch database.LinkPatch) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.Update"

	if patch.IsEmpty() {
		return r.getByAliasForUser(ctx, userID, alias)
	}

	var set []string
	var args []any

	if patch.OriginalURL != nil {
		args = append(args, *patch.OriginalURL)
		set = append(set, fmt.Sprintf("original_url = $%d", len(args)))
	}
	if patch.Alias != nil {
		args = append(args, *patch.Alias)
		set = append(set, fmt.Sprintf("alias = $%d", len(args)))
	}
	if patch.ExpiresAt != nil {
		args = append(args, *patch.ExpiresAt)
		set = append(set, fmt.Sprintf("expires_at = $%d", len(args)))
	}

	args = append(args, alias, userID)
	query := fmt.Sprintf(`UPDATE links
		SET %s
		WHERE alias = $%d AND user_id = $%d
		RETURNING *`, strings.Join(set, ", "), len(args)-1, len(args))

	rec := new(linkRecord)

	err := r.db.GetContext(ctx, rec, query, args...)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrAliasExists)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update link record: %w", op, err)
	}

	return rec.toModel(), nil
}

func (r *LinkRepository) getByAliasForUser(ctx context.Context, userID int64, alias string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.getByAliasForUser"

	rec := new(linkRecord)
	query := `SELECT * FROM links WHERE alias = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, rec, query, alias, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get link record: %w", op, err)
	}

	return rec.toModel(), nil
}

// Delete removes a link owned by the given user. Deleting an absent or
// foreign link reports database.ErrLinkNotFound.
func (r *LinkRepository) Delete(ctx context.Context, userID int64, alias string) error {
	const op = "database.postgres.LinkRepository.Delete"

	query := `DELETE FROM links WHERE alias = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, alias, userID)
	if err != nil {
		return fmt.Errorf("%s: failed to delete link record: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	return nil
}
