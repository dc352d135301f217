// ABOUTME: Contact database operations
// ABOUTME: Handles CRUD operations, contact lookups, and last-contacted tracking
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/models"
)

const contactColumns = `id, name, first_name, last_name, title, email, phone, company_id, organization, notes, last_contacted_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(s rowScanner) (*models.Contact, error) {
	var c models.Contact
	var firstName, lastName, title, email, phone, companyID, org, notes sql.NullString
	var lastContacted sql.NullTime

	if err := s.Scan(&c.ID, &c.Name, &firstName, &lastName, &title, &email, &phone, &companyID, &org, &notes, &lastContacted, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.FirstName = firstName.String
	c.LastName = lastName.String
	c.Title = title.String
	c.Email = email.String
	c.Phone = phone.String
	c.Organization = org.String
	c.Notes = notes.String
	if lastContacted.Valid {
		c.LastContactedAt = &lastContacted.Time
	}
	if companyID.Valid {
		if cid, err := uuid.Parse(companyID.String); err == nil {
			c.CompanyID = &cid
		}
	}
	return &c, nil
}

func nullableID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func CreateContact(db *sql.DB, contact *models.Contact) error {
	contact.ID = uuid.New()
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	if contact.Name == "" {
		contact.Name = contact.DisplayName()
	}

	_, err := db.Exec(`
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID.String(), contact.Name, contact.FirstName, contact.LastName, contact.Title, contact.Email, contact.Phone,
		nullableID(contact.CompanyID), contact.Organization, contact.Notes, contact.LastContactedAt, contact.CreatedAt, contact.UpdatedAt)

	return err
}

func GetContact(db *sql.DB, id uuid.UUID) (*models.Contact, error) {
	contact, err := scanContact(db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return contact, err
}

// FindContactByEmail returns the contact with the given email, or nil.
func FindContactByEmail(db *sql.DB, email string) (*models.Contact, error) {
	contact, err := scanContact(db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE LOWER(email) = LOWER(?)`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return contact, err
}

func FindContacts(db *sql.DB, query string, companyID *uuid.UUID, limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows *sql.Rows
	var err error

	if companyID != nil {
		rows, err = db.Query(`
			SELECT `+contactColumns+`
			FROM contacts
			WHERE company_id = ?
			ORDER BY created_at DESC
			LIMIT ?
		`, companyID.String(), limit)
	} else if query != "" {
		searchPattern := "%" + strings.ToLower(query) + "%"
		rows, err = db.Query(`
			SELECT `+contactColumns+`
			FROM contacts
			WHERE LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(organization) LIKE ?
			ORDER BY created_at DESC
			LIMIT ?
		`, searchPattern, searchPattern, searchPattern, limit)
	} else {
		rows, err = db.Query(`
			SELECT `+contactColumns+`
			FROM contacts
			ORDER BY created_at DESC
			LIMIT ?
		`, limit)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}

	return contacts, rows.Err()
}

func UpdateContact(db *sql.DB, id uuid.UUID, updates *models.Contact) error {
	updates.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE contacts
		SET name = ?, first_name = ?, last_name = ?, title = ?, email = ?, phone = ?,
			company_id = ?, organization = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, updates.Name, updates.FirstName, updates.LastName, updates.Title, updates.Email, updates.Phone,
		nullableID(updates.CompanyID), updates.Organization, updates.Notes, updates.UpdatedAt, id.String())

	return err
}

func DeleteContact(db *sql.DB, id uuid.UUID) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	if _, err = tx.Exec(`DELETE FROM notes WHERE contact_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete notes: %w", err)
	}

	if _, err = tx.Exec(`DELETE FROM call_logs WHERE contact_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete call logs: %w", err)
	}

	if _, err = tx.Exec(`DELETE FROM contacts WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	return tx.Commit()
}

func UpdateContactLastContacted(db *sql.DB, contactID uuid.UUID, timestamp time.Time) error {
	_, err := db.Exec(`
		UPDATE contacts
		SET last_contacted_at = ?, updated_at = ?
		WHERE id = ?
	`, timestamp, time.Now(), contactID.String())

	return err
}
