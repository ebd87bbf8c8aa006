package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RileyK05/basic-crm/internal/models"
)

type noteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *sql.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	query := `INSERT INTO notes (customer_id, description) VALUES ($1, $2) RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, note.CustomerID, note.Description).Scan(&note.ID); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (r *noteRepository) GetByID(ctx context.Context, id int) (*models.Note, error) {
	note := &models.Note{}
	err := r.db.QueryRowContext(ctx, `SELECT id, customer_id, description FROM notes WHERE id = $1`, id).
		Scan(&note.ID, &note.CustomerID, &note.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

func (r *noteRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Note, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, customer_id, description FROM notes WHERE customer_id = $1 ORDER BY id DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		note := &models.Note{}
		if err := rows.Scan(&note.ID, &note.CustomerID, &note.Description); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (r *noteRepository) Update(ctx context.Context, note *models.Note) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notes SET description = $1 WHERE id = $2`, note.Description, note.ID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return expectAffected(result, fmt.Sprintf("note %d", note.ID))
}

func (r *noteRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return expectAffected(result, fmt.Sprintf("note %d", id))
}
