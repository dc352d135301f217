// ABOUTME: Call log database operations
// ABOUTME: Records call outcomes and aggregates them for the dashboard
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/models"
)

const callColumns = `id, contact_id, company_id, product, approach, outcome, notes, duration_seconds, called_at, created_at`

func scanCall(s rowScanner) (*models.CallLog, error) {
	var c models.CallLog
	var companyID, product, approach, notes sql.NullString
	if err := s.Scan(&c.ID, &c.ContactID, &companyID, &product, &approach, &c.Outcome, &notes,
		&c.DurationSeconds, &c.CalledAt, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Product = product.String
	c.Approach = approach.String
	c.Notes = notes.String
	if companyID.Valid {
		if cid, err := uuid.Parse(companyID.String); err == nil {
			c.CompanyID = &cid
		}
	}
	return &c, nil
}

// CreateCallLog records a call and updates the contact's last-contacted time.
func CreateCallLog(db *sql.DB, call *models.CallLog) error {
	if !models.ValidOutcome(call.Outcome) {
		return fmt.Errorf("invalid call outcome: %q", call.Outcome)
	}

	call.ID = uuid.New()
	call.CreatedAt = time.Now()
	if call.CalledAt.IsZero() {
		call.CalledAt = call.CreatedAt
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(`
		INSERT INTO call_logs (`+callColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, call.ID.String(), call.ContactID.String(), nullableID(call.CompanyID), call.Product, call.Approach,
		call.Outcome, call.Notes, call.DurationSeconds, call.CalledAt, call.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert call log: %w", err)
	}

	if _, err = tx.Exec(`UPDATE contacts SET last_contacted_at = ?, updated_at = ? WHERE id = ?`,
		call.CalledAt, time.Now(), call.ContactID.String()); err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	return tx.Commit()
}

// ListCallLogs returns the most recent calls, optionally for one contact.
func ListCallLogs(db *sql.DB, contactID *uuid.UUID, limit int) ([]models.CallLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows *sql.Rows
	var err error
	if contactID != nil {
		rows, err = db.Query(`SELECT `+callColumns+` FROM call_logs WHERE contact_id = ? ORDER BY called_at DESC LIMIT ?`,
			contactID.String(), limit)
	} else {
		rows, err = db.Query(`SELECT `+callColumns+` FROM call_logs ORDER BY called_at DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query call logs: %w", err)
	}
	defer rows.Close()

	var calls []models.CallLog
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan call log: %w", err)
		}
		calls = append(calls, *c)
	}
	return calls, rows.Err()
}

// CallStats summarises call activity since a point in time.
type CallStats struct {
	Total     int            `json:"total"`
	ByOutcome map[string]int `json:"by_outcome"`
	ByProduct map[string]int `json:"by_product"`
	Meetings  int            `json:"meetings"`
}

// ConnectRate is the share of calls that reached a person.
func (s CallStats) ConnectRate() float64 {
	if s.Total == 0 {
		return 0
	}
	reached := s.ByOutcome[models.OutcomeConnected] + s.ByOutcome[models.OutcomeMeetingSet] +
		s.ByOutcome[models.OutcomeNotInterest] + s.ByOutcome[models.OutcomeFollowUp]
	return float64(reached) / float64(s.Total)
}

func GetCallStats(db *sql.DB, since time.Time) (*CallStats, error) {
	stats := &CallStats{ByOutcome: map[string]int{}, ByProduct: map[string]int{}}

	rows, err := db.Query(`
		SELECT outcome, COALESCE(product, ''), COUNT(*)
		FROM call_logs
		WHERE called_at >= ?
		GROUP BY outcome, product
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query call stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var outcome, product string
		var n int
		if err := rows.Scan(&outcome, &product, &n); err != nil {
			return nil, fmt.Errorf("failed to scan call stats: %w", err)
		}
		stats.Total += n
		stats.ByOutcome[outcome] += n
		if product != "" {
			stats.ByProduct[product] += n
		}
	}
	stats.Meetings = stats.ByOutcome[models.OutcomeMeetingSet]
	return stats, rows.Err()
}
