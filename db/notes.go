// ABOUTME: Contact note database operations
// ABOUTME: Notes are free text that feeds EHR/DMS/volume context detection
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/models"
)

func CreateNote(db *sql.DB, note *models.Note) error {
	if strings.TrimSpace(note.Content) == "" {
		return fmt.Errorf("note content is required")
	}
	note.ID = uuid.New()
	note.CreatedAt = time.Now()

	_, err := db.Exec(`
		INSERT INTO notes (id, contact_id, content, created_at)
		VALUES (?, ?, ?, ?)
	`, note.ID.String(), note.ContactID.String(), note.Content, note.CreatedAt)

	return err
}

// ListNotes returns a contact's notes, oldest first.
func ListNotes(db *sql.DB, contactID uuid.UUID) ([]models.Note, error) {
	rows, err := db.Query(`
		SELECT id, contact_id, content, created_at
		FROM notes
		WHERE contact_id = ?
		ORDER BY created_at ASC
	`, contactID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.ContactID, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// ContactNotesText joins the contact's own notes field with its note
// history, one entry per line.
func ContactNotesText(db *sql.DB, contactID uuid.UUID) (string, error) {
	contact, err := GetContact(db, contactID)
	if err != nil {
		return "", err
	}

	var parts []string
	if contact != nil && strings.TrimSpace(contact.Notes) != "" {
		parts = append(parts, contact.Notes)
	}

	notes, err := ListNotes(db, contactID)
	if err != nil {
		return "", err
	}
	for _, n := range notes {
		parts = append(parts, n.Content)
	}
	return strings.Join(parts, "\n"), nil
}
