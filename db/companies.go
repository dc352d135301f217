// ABOUTME: Company database operations
// ABOUTME: Handles CRUD operations, company lookups, and EHR/DMS details
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/models"
)

const companyColumns = `id, name, domain, industry, ehr, dms, volume, notes, created_at, updated_at`

func scanCompany(s rowScanner) (*models.Company, error) {
	var c models.Company
	var domain, industry, ehr, dms, volume, notes sql.NullString
	if err := s.Scan(&c.ID, &c.Name, &domain, &industry, &ehr, &dms, &volume, &notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Domain = domain.String
	c.Industry = industry.String
	c.EHR = ehr.String
	c.DMS = dms.String
	c.Volume = volume.String
	c.Notes = notes.String
	return &c, nil
}

func CreateCompany(db *sql.DB, company *models.Company) error {
	company.ID = uuid.New()
	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO companies (`+companyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, company.ID.String(), company.Name, company.Domain, company.Industry, company.EHR, company.DMS, company.Volume,
		company.Notes, company.CreatedAt, company.UpdatedAt)

	return err
}

func GetCompany(db *sql.DB, id uuid.UUID) (*models.Company, error) {
	company, err := scanCompany(db.QueryRow(`SELECT `+companyColumns+` FROM companies WHERE id = ?`, id.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return company, err
}

func FindCompanies(db *sql.DB, query string, limit int) ([]models.Company, error) {
	if limit <= 0 {
		limit = 10
	}

	searchPattern := "%" + strings.ToLower(query) + "%"
	rows, err := db.Query(`
		SELECT `+companyColumns+`
		FROM companies
		WHERE LOWER(name) LIKE ? OR LOWER(domain) LIKE ? OR LOWER(ehr) LIKE ? OR LOWER(dms) LIKE ?
		ORDER BY created_at DESC
		LIMIT ?
	`, searchPattern, searchPattern, searchPattern, searchPattern, limit)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}

	return companies, rows.Err()
}

func FindCompanyByName(db *sql.DB, name string) (*models.Company, error) {
	company, err := scanCompany(db.QueryRow(`SELECT `+companyColumns+` FROM companies WHERE LOWER(name) = LOWER(?)`, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return company, err
}

func UpdateCompany(db *sql.DB, id uuid.UUID, updates *models.Company) error {
	updates.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE companies
		SET name = ?, domain = ?, industry = ?, ehr = ?, dms = ?, volume = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, updates.Name, updates.Domain, updates.Industry, updates.EHR, updates.DMS, updates.Volume, updates.Notes,
		updates.UpdatedAt, id.String())

	return err
}

func DeleteCompany(db *sql.DB, id uuid.UUID) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Set company_id to NULL for affected contacts and calls
	if _, err = tx.Exec(`UPDATE contacts SET company_id = NULL WHERE company_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to update contacts: %w", err)
	}
	if _, err = tx.Exec(`UPDATE call_logs SET company_id = NULL WHERE company_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to update call logs: %w", err)
	}

	if _, err = tx.Exec(`DELETE FROM companies WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return tx.Commit()
}
