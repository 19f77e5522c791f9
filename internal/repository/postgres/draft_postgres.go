package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ahmadchreiff/eigen-journal/internal/model"
	"github.com/ahmadchreiff/eigen-journal/internal/repository"
)

// DraftPostgres is a PostgreSQL implementation of repository.DraftRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DraftPostgres struct {
	db *sql.DB
}

// NewDraftPostgres creates a new DraftPostgres repository.
func NewDraftPostgres(db *sql.DB) *DraftPostgres {
	return &DraftPostgres{db: db}
}

var _ repository.DraftRepository = (*DraftPostgres)(nil)

const draftColumns = `id, first_name, last_name, email, student_id, affiliation, year, major,
		title, abstract_text, category, keywords, stored_file_name, created_at, status`

// Keywords are persisted as one comma-joined TEXT column; insertion order is
// preserved and duplicates are kept as submitted.
func joinKeywords(ks []string) string {
	return strings.Join(ks, ",")
}

func splitKeywords(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func scanDraft(row interface{ Scan(...any) error }) (*model.Draft, error) {
	var d model.Draft
	var keywords string
	if err := row.Scan(
		&d.ID,
		&d.FirstName,
		&d.LastName,
		&d.Email,
		&d.StudentID,
		&d.Affiliation,
		&d.Year,
		&d.Major,
		&d.Title,
		&d.AbstractText,
		&d.Category,
		&keywords,
		&d.StoredFileName,
		&d.CreatedAt,
		&d.Status,
	); err != nil {
		return nil, err
	}
	d.Keywords = splitKeywords(keywords)
	return &d, nil
}

// Create inserts a new draft row and returns the stored record.
func (r *DraftPostgres) Create(ctx context.Context, d *model.Draft) (*model.Draft, error) {
	const q = `
		INSERT INTO drafts (` + draftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + draftColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		d.ID,
		d.FirstName,
		d.LastName,
		d.Email,
		d.StudentID,
		d.Affiliation,
		d.Year,
		d.Major,
		d.Title,
		d.AbstractText,
		d.Category,
		joinKeywords(d.Keywords),
		d.StoredFileName,
		d.CreatedAt,
		d.Status,
	)
	return scanDraft(row)
}

// FindByID fetches a single draft by its ID.
func (r *DraftPostgres) FindByID(ctx context.Context, id string) (*model.Draft, error) {
	const q = `
		SELECT ` + draftColumns + `
		FROM drafts
		WHERE id = $1
	`
	return scanDraft(r.db.QueryRowContext(ctx, q, id))
}

// ListAll returns every draft, newest first.
func (r *DraftPostgres) ListAll(ctx context.Context) ([]model.Draft, error) {
	const q = `
		SELECT ` + draftColumns + `
		FROM drafts
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Draft, 0)
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists the mutable fields of an existing draft. ID, stored file
// name and created_at are immutable by schema design and are not touched.
func (r *DraftPostgres) Update(ctx context.Context, d *model.Draft) (*model.Draft, error) {
	const q = `
		UPDATE drafts
		SET first_name = $2, last_name = $3, email = $4, student_id = $5,
			affiliation = $6, year = $7, major = $8, title = $9,
			abstract_text = $10, category = $11, keywords = $12, status = $13
		WHERE id = $1
		RETURNING ` + draftColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		d.ID,
		d.FirstName,
		d.LastName,
		d.Email,
		d.StudentID,
		d.Affiliation,
		d.Year,
		d.Major,
		d.Title,
		d.AbstractText,
		d.Category,
		joinKeywords(d.Keywords),
		d.Status,
	)
	return scanDraft(row)
}

// Delete removes a draft by ID. It does not return an error if the row does not exist.
func (r *DraftPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM drafts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	// Rows affected is intentionally ignored; the service owns existence checks.
	_, _ = res.RowsAffected()
	return nil
}
