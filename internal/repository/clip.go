package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/blinkclip/blinkclip-go/internal/model"
)

// ErrClipNotFound is returned both when a clip does not exist and when it
// exists but belongs to another user. Ownership is never distinguishable from
// nonexistence to the caller.
var ErrClipNotFound = errors.New("clip not found")

// ClipRepository handles clip persistence operations. Every read and write is
// scoped by the owning user ID in a single statement, never as a separate
// existence check followed by an ownership check.
type ClipRepository struct {
	db *sql.DB
}

// NewClipRepository creates a new ClipRepository.
func NewClipRepository(db *sql.DB) *ClipRepository {
	return &ClipRepository{db: db}
}

// Create inserts a new clip. The ID and creation timestamp are assigned here,
// not by the caller.
func (r *ClipRepository) Create(ctx context.Context, clip *model.Clip) error {
	clip.ID = uuid.NewString()
	clip.CreatedAt = time.Now().UTC().Truncate(time.Second)

	query := `INSERT INTO clips (id, user_id, text, source_url, page_title, page_description, page_image, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		clip.ID,
		clip.UserID,
		clip.Text,
		nullable(clip.SourceURL),
		nullable(clip.PageTitle),
		nullable(clip.PageDescription),
		nullable(clip.PageImage),
		clip.CreatedAt,
	)
	return err
}

const selectClip = `SELECT id, user_id, text,
	COALESCE(source_url, ''), COALESCE(page_title, ''),
	COALESCE(page_description, ''), COALESCE(page_image, ''), created_at
	FROM clips`

// ListByUser retrieves a user's clips, newest first. When search is non-empty
// the result is filtered to clips whose text contains it, case-insensitively.
func (r *ClipRepository) ListByUser(ctx context.Context, userID, search string) ([]model.Clip, error) {
	query := selectClip + ` WHERE user_id = ?`
	args := []any{userID}

	if search != "" {
		query += ` AND LOWER(text) LIKE LOWER(?)`
		args = append(args, "%"+escapeLike(search)+"%")
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []model.Clip
	for rows.Next() {
		var c model.Clip
		if err := scanClip(rows, &c); err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}

	return clips, rows.Err()
}

// GetOwned retrieves a single clip by ID, scoped to the owning user.
func (r *ClipRepository) GetOwned(ctx context.Context, userID, clipID string) (*model.Clip, error) {
	query := selectClip + ` WHERE id = ? AND user_id = ?`

	clip := &model.Clip{}
	err := scanClip(r.db.QueryRowContext(ctx, query, clipID, userID), clip)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClipNotFound
		}
		return nil, err
	}

	return clip, nil
}

// UpdateText replaces a clip's text. Only the text is mutable.
func (r *ClipRepository) UpdateText(ctx context.Context, userID, clipID, text string) error {
	query := `UPDATE clips SET text = ? WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, text, clipID, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrClipNotFound
	}

	return nil
}

// Delete removes a clip owned by the given user.
func (r *ClipRepository) Delete(ctx context.Context, userID, clipID string) error {
	query := `DELETE FROM clips WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, clipID, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrClipNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClip(row rowScanner, c *model.Clip) error {
	return row.Scan(
		&c.ID, &c.UserID, &c.Text,
		&c.SourceURL, &c.PageTitle, &c.PageDescription, &c.PageImage,
		&c.CreatedAt,
	)
}

// nullable maps empty optional metadata to NULL so the schema stays honest
// about which fields were captured.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// escapeLike neutralizes LIKE wildcards in a user-supplied search term.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
