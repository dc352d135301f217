// ABOUTME: Database operations for sync_state and sync_log tables
// ABOUTME: Tracks contact-import status, tokens, and which records were already imported
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/models"
)

// SyncState represents the import state for one external service.
type SyncState struct {
	Service       string     `json:"service"`
	LastSyncTime  *time.Time `json:"last_sync_time,omitempty"`
	LastSyncToken *string    `json:"-"`
	Status        string     `json:"status"`
	ErrorMessage  *string    `json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

const syncStateColumns = `service, last_sync_time, last_sync_token, status, error_message, created_at, updated_at`

func scanSyncState(s rowScanner) (*SyncState, error) {
	var state SyncState
	var lastSyncTime sql.NullTime
	var lastSyncToken, errorMessage sql.NullString

	if err := s.Scan(&state.Service, &lastSyncTime, &lastSyncToken, &state.Status, &errorMessage,
		&state.CreatedAt, &state.UpdatedAt); err != nil {
		return nil, err
	}
	if lastSyncTime.Valid {
		state.LastSyncTime = &lastSyncTime.Time
	}
	if lastSyncToken.Valid {
		state.LastSyncToken = &lastSyncToken.String
	}
	if errorMessage.Valid {
		state.ErrorMessage = &errorMessage.String
	}
	return &state, nil
}

// GetSyncState returns nil when the service has never synced.
func GetSyncState(db *sql.DB, service string) (*SyncState, error) {
	state, err := scanSyncState(db.QueryRow(`SELECT `+syncStateColumns+` FROM sync_state WHERE service = ?`, service))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}
	return state, nil
}

func UpdateSyncStatus(db *sql.DB, service, status string, errorMsg *string) error {
	switch status {
	case models.SyncStatusIdle, models.SyncStatusSyncing, models.SyncStatusError:
	default:
		return fmt.Errorf("invalid sync status: %q", status)
	}

	var errorMsgVal sql.NullString
	if errorMsg != nil {
		errorMsgVal = sql.NullString{String: *errorMsg, Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO sync_state (service, status, error_message, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			status = excluded.status,
			error_message = excluded.error_message,
			updated_at = CURRENT_TIMESTAMP
	`, service, status, errorMsgVal)
	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}
	return nil
}

// UpdateSyncToken stores the next page/sync token and marks the service idle.
func UpdateSyncToken(db *sql.DB, service, token string) error {
	_, err := db.Exec(`
		INSERT INTO sync_state (service, last_sync_time, last_sync_token, status, created_at, updated_at)
		VALUES (?, CURRENT_TIMESTAMP, ?, 'idle', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			last_sync_time = CURRENT_TIMESTAMP,
			last_sync_token = excluded.last_sync_token,
			status = 'idle',
			error_message = NULL,
			updated_at = CURRENT_TIMESTAMP
	`, service, token)
	if err != nil {
		return fmt.Errorf("failed to update sync token: %w", err)
	}
	return nil
}

// ImportedEntityID returns the local entity a source record was imported
// as, or "" if it has not been imported.
func ImportedEntityID(db *sql.DB, sourceService, sourceID string) (string, error) {
	var entityID string
	err := db.QueryRow(`
		SELECT entity_id FROM sync_log
		WHERE source_service = ? AND source_id = ?
	`, sourceService, sourceID).Scan(&entityID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to check sync log: %w", err)
	}
	return entityID, nil
}

// RecordImport logs that sourceID from sourceService became entityID.
func RecordImport(db *sql.DB, sourceService, sourceID, entityType, entityID, metadata string) error {
	_, err := db.Exec(`
		INSERT INTO sync_log (id, source_service, source_id, entity_type, entity_id, imported_at, metadata)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, ?)
	`, uuid.New().String(), sourceService, sourceID, entityType, entityID, metadata)
	if err != nil {
		return fmt.Errorf("failed to create sync log: %w", err)
	}
	return nil
}

func GetAllSyncStates(db *sql.DB) ([]SyncState, error) {
	rows, err := db.Query(`SELECT ` + syncStateColumns + ` FROM sync_state ORDER BY service`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var states []SyncState
	for rows.Next() {
		state, err := scanSyncState(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync state: %w", err)
		}
		states = append(states, *state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync states: %w", err)
	}
	return states, nil
}
