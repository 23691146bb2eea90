package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for ad persistence operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// CreateAd inserts a new ad with status pending and returns its id.
	CreateAd(ctx context.Context, draft *AdDraft) (int64, error)

	// GetAd retrieves an ad by id including publication tracking.
	// Returns nil, nil if not found.
	GetAd(ctx context.Context, adID int64) (*Ad, error)

	// GetUserAds retrieves the owner's ads, excluding deleted, newest-first.
	GetUserAds(ctx context.Context, userID int64, limit int) ([]Ad, error)

	// ListAds retrieves ads newest-first, optionally filtered by status.
	// An empty status returns all ads.
	ListAds(ctx context.Context, status Status, limit int) ([]Ad, error)

	// GetAdsByCategory retrieves published ads in a category, newest-first.
	GetAdsByCategory(ctx context.Context, category string, limit int) ([]Ad, error)

	// SearchAds runs a full-text search over title, description and city of
	// published ads. Every whitespace-separated token must match. If the
	// index query fails structurally, a case-insensitive substring match is
	// used instead. A blank query returns no results without a lookup.
	SearchAds(ctx context.Context, query string, limit int) ([]Ad, error)

	// UpdateAd overwrites the ad's content fields, forces status back to
	// pending, and clears published_at and publication tracking. Ownership
	// is the caller's responsibility.
	UpdateAd(ctx context.Context, adID int64, draft *AdDraft) error

	// DeleteUserAd soft-deletes an ad if it exists, belongs to userID, and
	// is not already deleted. Reports whether a row changed.
	DeleteUserAd(ctx context.Context, adID, userID int64) (bool, error)

	// UpdateAdStatus sets the ad's status directly. Transitioning to
	// published also stamps published_at. Reports whether a row changed.
	UpdateAdStatus(ctx context.Context, adID int64, status Status) (bool, error)

	// SetPublicationInfo records where the ad was broadcast.
	SetPublicationInfo(ctx context.Context, adID, chatID int64, messageIDs []int64) error

	// GetPublicationInfo retrieves the recorded broadcast destination and
	// message ids. Returns nil, nil when the ad was never broadcast.
	GetPublicationInfo(ctx context.Context, adID int64) (*PublicationInfo, error)

	// CountRecentAds counts the owner's ads created within the trailing
	// 24-hour window, used for the daily submission limit.
	CountRecentAds(ctx context.Context, userID int64) (int, error)

	// RunSQLMaintenance performs database maintenance (VACUUM, ANALYZE).
	RunSQLMaintenance(ctx context.Context) error
}

const defaultListLimit = 20

// adColumns is the full column list used by every row fetch, so that
// publication tracking always travels with the ad.
const adColumns = `id, user_id, username, phone, title, description, price_text,
	price_value, category, photos_json, city, status, created_at, published_at,
	publication_chat_id, publication_message_ids_json`

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// CreateAd inserts a new ad record with status pending.
func (s *sqlxStore) CreateAd(ctx context.Context, draft *AdDraft) (int64, error) {
	if draft == nil {
		return 0, fmt.Errorf("cannot create nil ad draft")
	}

	query := `
        INSERT INTO ads (
            user_id, username, phone, title, description, price_text,
            price_value, category, photos_json, city, status, created_at
        )
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
    `

	result, err := s.db.ExecContext(ctx, query,
		draft.UserID,
		nullString(draft.Username),
		nullString(draft.Phone),
		draft.Title,
		draft.Description,
		draft.PriceText,
		nullFloat(draft.PriceValue),
		draft.Category,
		StringList(draft.Photos),
		draft.City,
		StatusPending,
		time.Now().UTC(),
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating ad", "user_id", draft.UserID, "error", err)
		return 0, fmt.Errorf("failed to create ad for user %d: %w", draft.UserID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve id of created ad: %w", err)
	}

	s.logger.DebugContext(ctx, "Ad created", "ad_id", id, "user_id", draft.UserID)
	return id, nil
}

// GetAd retrieves a full ad row by id. Returns nil, nil if not found.
func (s *sqlxStore) GetAd(ctx context.Context, adID int64) (*Ad, error) {
	var ad Ad
	query := `SELECT ` + adColumns + ` FROM ads WHERE id = ?`

	err := s.db.GetContext(ctx, &ad, query, adID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "Ad not found", "ad_id", adID)
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting ad by id", "ad_id", adID, "error", err)
		return nil, fmt.Errorf("failed to get ad %d: %w", adID, err)
	}

	return &ad, nil
}

// GetUserAds retrieves the owner's ads, excluding deleted, newest-first.
func (s *sqlxStore) GetUserAds(ctx context.Context, userID int64, limit int) ([]Ad, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var ads []Ad
	query := `
        SELECT ` + adColumns + ` FROM ads
        WHERE user_id = ? AND status != ?
        ORDER BY id DESC
        LIMIT ?;
    `

	err := s.db.SelectContext(ctx, &ads, query, userID, StatusDeleted, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting user ads", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get ads for user %d: %w", userID, err)
	}

	return ads, nil
}

// ListAds retrieves ads newest-first, optionally filtered by status.
func (s *sqlxStore) ListAds(ctx context.Context, status Status, limit int) ([]Ad, error) {
	if limit <= 0 {
		limit = 50
	}

	var (
		ads []Ad
		err error
	)
	if status != "" {
		query := `SELECT ` + adColumns + ` FROM ads WHERE status = ? ORDER BY id DESC LIMIT ?`
		err = s.db.SelectContext(ctx, &ads, query, status, limit)
	} else {
		query := `SELECT ` + adColumns + ` FROM ads ORDER BY id DESC LIMIT ?`
		err = s.db.SelectContext(ctx, &ads, query, limit)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing ads", "status", status, "error", err)
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}

	return ads, nil
}

// GetAdsByCategory retrieves published ads in a category, newest-first.
func (s *sqlxStore) GetAdsByCategory(ctx context.Context, category string, limit int) ([]Ad, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var ads []Ad
	query := `
        SELECT ` + adColumns + ` FROM ads
        WHERE status = ? AND category = ?
        ORDER BY id DESC
        LIMIT ?;
    `

	err := s.db.SelectContext(ctx, &ads, query, StatusPublished, category, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting ads by category", "category", category, "error", err)
		return nil, fmt.Errorf("failed to get ads in category %q: %w", category, err)
	}

	return ads, nil
}

// SearchAds performs an FTS5 match over title, description and city of
// published ads, falling back to LIKE when the index query fails.
func (s *sqlxStore) SearchAds(ctx context.Context, query string, limit int) ([]Ad, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	match := sanitizeFTSQuery(query)
	if match == "" {
		return nil, nil
	}

	// The virtual table must stay unaliased: sqlite rejects MATCH against
	// an FTS5 table alias ("no such column").
	var ads []Ad
	ftsQuery := `
        SELECT a.*
        FROM ads_fts
        JOIN ads a ON a.id = ads_fts.rowid
        WHERE a.status = ? AND ads_fts MATCH ?
        ORDER BY a.id DESC
        LIMIT ?;
    `

	err := s.db.SelectContext(ctx, &ads, ftsQuery, StatusPublished, match, limit)
	if err == nil {
		return ads, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	// Structural failure of the index query: degrade to a substring match
	// over the same fields with the raw query.
	s.logger.WarnContext(ctx, "FTS query failed, falling back to substring search",
		"query", query, "error", err)

	pattern := "%" + query + "%"
	likeQuery := `
        SELECT ` + adColumns + ` FROM ads
        WHERE status = ?
          AND (title LIKE ? OR description LIKE ? OR city LIKE ?)
        ORDER BY id DESC
        LIMIT ?;
    `

	ads = nil
	err = s.db.SelectContext(ctx, &ads, likeQuery, StatusPublished, pattern, pattern, pattern, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Fallback search failed", "query", query, "error", err)
		return nil, fmt.Errorf("failed to search ads: %w", err)
	}

	return ads, nil
}

// sanitizeFTSQuery turns free text into an FTS5 expression requiring every
// token to match: tokens are quoted (with embedded quotes doubled) and
// joined with AND. Returns "" for blank input.
func sanitizeFTSQuery(query string) string {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(tokens))
	for _, t := range tokens {
		quoted = append(quoted, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " AND ")
}

// UpdateAd overwrites content fields, resets status to pending, and clears
// published_at and publication tracking. Ownership is checked by callers.
func (s *sqlxStore) UpdateAd(ctx context.Context, adID int64, draft *AdDraft) error {
	if draft == nil {
		return fmt.Errorf("cannot update ad %d with nil draft", adID)
	}

	query := `
        UPDATE ads
        SET title = ?,
            description = ?,
            phone = ?,
            price_text = ?,
            price_value = ?,
            category = ?,
            city = ?,
            photos_json = ?,
            status = ?,
            published_at = NULL,
            publication_chat_id = NULL,
            publication_message_ids_json = '[]'
        WHERE id = ?;
    `

	_, err := s.db.ExecContext(ctx, query,
		draft.Title,
		draft.Description,
		nullString(draft.Phone),
		draft.PriceText,
		nullFloat(draft.PriceValue),
		draft.Category,
		draft.City,
		StringList(draft.Photos),
		StatusPending,
		adID,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating ad", "ad_id", adID, "error", err)
		return fmt.Errorf("failed to update ad %d: %w", adID, err)
	}

	s.logger.DebugContext(ctx, "Ad updated and reset to pending", "ad_id", adID)
	return nil
}

// DeleteUserAd soft-deletes an ad owned by userID.
func (s *sqlxStore) DeleteUserAd(ctx context.Context, adID, userID int64) (bool, error) {
	query := `
        UPDATE ads
        SET status = ?
        WHERE id = ? AND user_id = ? AND status != ?;
    `

	result, err := s.db.ExecContext(ctx, query, StatusDeleted, adID, userID, StatusDeleted)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error soft-deleting ad", "ad_id", adID, "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to delete ad %d: %w", adID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result for ad %d: %w", adID, err)
	}

	if affected > 0 {
		s.logger.InfoContext(ctx, "Ad soft-deleted", "ad_id", adID, "user_id", userID)
	}
	return affected > 0, nil
}

// UpdateAdStatus sets the ad's status; publishing stamps published_at.
func (s *sqlxStore) UpdateAdStatus(ctx context.Context, adID int64, status Status) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("invalid ad status %q", status)
	}

	var (
		result sql.Result
		err    error
	)
	if status == StatusPublished {
		query := `UPDATE ads SET status = ?, published_at = ? WHERE id = ?`
		result, err = s.db.ExecContext(ctx, query, status, time.Now().UTC(), adID)
	} else {
		query := `UPDATE ads SET status = ? WHERE id = ?`
		result, err = s.db.ExecContext(ctx, query, status, adID)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating ad status", "ad_id", adID, "status", status, "error", err)
		return false, fmt.Errorf("failed to set status %q on ad %d: %w", status, adID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check status update result for ad %d: %w", adID, err)
	}

	s.logger.DebugContext(ctx, "Ad status updated", "ad_id", adID, "status", status, "changed", affected > 0)
	return affected > 0, nil
}

// SetPublicationInfo records the broadcast destination and message ids.
func (s *sqlxStore) SetPublicationInfo(ctx context.Context, adID, chatID int64, messageIDs []int64) error {
	query := `
        UPDATE ads
        SET publication_chat_id = ?, publication_message_ids_json = ?
        WHERE id = ?;
    `

	_, err := s.db.ExecContext(ctx, query, chatID, Int64List(messageIDs), adID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving publication info", "ad_id", adID, "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to save publication info for ad %d: %w", adID, err)
	}

	s.logger.DebugContext(ctx, "Publication info saved",
		"ad_id", adID, "chat_id", chatID, "message_count", len(messageIDs))
	return nil
}

// GetPublicationInfo retrieves the recorded broadcast destination and
// message ids. Returns nil, nil when the ad was never broadcast.
func (s *sqlxStore) GetPublicationInfo(ctx context.Context, adID int64) (*PublicationInfo, error) {
	var row struct {
		ChatID     sql.NullInt64 `db:"publication_chat_id"`
		MessageIDs Int64List     `db:"publication_message_ids_json"`
	}
	query := `SELECT publication_chat_id, publication_message_ids_json FROM ads WHERE id = ?`

	err := s.db.GetContext(ctx, &row, query, adID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting publication info", "ad_id", adID, "error", err)
		return nil, fmt.Errorf("failed to get publication info for ad %d: %w", adID, err)
	}

	if !row.ChatID.Valid {
		return nil, nil
	}
	return &PublicationInfo{ChatID: row.ChatID.Int64, MessageIDs: row.MessageIDs}, nil
}

// CountRecentAds counts the owner's ads created in the trailing 24 hours.
func (s *sqlxStore) CountRecentAds(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM ads WHERE user_id = ? AND created_at >= ?`

	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	err := s.db.GetContext(ctx, &count, query, userID, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error counting recent ads", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to count recent ads for user %d: %w", userID, err)
	}

	return count, nil
}

// RunSQLMaintenance executes VACUUM and ANALYZE on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM, ANALYZE)...")

	// VACUUM must run outside a transaction in SQLite.
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance (ANALYZE) failed", "error", err)
		return fmt.Errorf("failed to execute ANALYZE: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed successfully")
	return nil
}
