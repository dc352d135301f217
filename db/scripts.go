// ABOUTME: Script library database operations
// ABOUTME: Stores authored call-flow content and exposes it as merge rows
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/callflow"
	"github.com/harperreed/callcoach/models"
)

const scriptColumns = `id, name, product, approach, trigger_type, competitor, competitor_id, section_type, content, is_active, usage_count, version, created_at, updated_at`

// ScriptFilter narrows ListScripts. Empty fields match everything.
type ScriptFilter struct {
	Product     string
	Approach    string
	SectionType string
	ActiveOnly  bool
	Limit       int
}

func scanScript(s rowScanner) (*models.Script, error) {
	var sc models.Script
	var approach, trigger, competitor, competitorID sql.NullString
	if err := s.Scan(&sc.ID, &sc.Name, &sc.Product, &approach, &trigger, &competitor, &competitorID,
		&sc.SectionType, &sc.Content, &sc.IsActive, &sc.UsageCount, &sc.Version, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
		return nil, err
	}
	sc.Approach = approach.String
	sc.TriggerType = trigger.String
	sc.Competitor = competitor.String
	sc.CompetitorID = competitorID.String
	return &sc, nil
}

func CreateScript(db *sql.DB, script *models.Script) error {
	if strings.TrimSpace(script.Content) == "" {
		return fmt.Errorf("script content is required")
	}
	script.ID = uuid.New()
	now := time.Now()
	script.CreatedAt = now
	script.UpdatedAt = now
	script.SectionType = callflow.NormalizeSectionType(script.SectionType)
	if script.Version == 0 {
		script.Version = 1
	}

	_, err := db.Exec(`
		INSERT INTO scripts (`+scriptColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, script.ID.String(), script.Name, script.Product, script.Approach, script.TriggerType, script.Competitor,
		script.CompetitorID, script.SectionType, script.Content, script.IsActive, script.UsageCount, script.Version,
		script.CreatedAt, script.UpdatedAt)

	return err
}

func GetScript(db *sql.DB, id uuid.UUID) (*models.Script, error) {
	script, err := scanScript(db.QueryRow(`SELECT `+scriptColumns+` FROM scripts WHERE id = ?`, id.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return script, err
}

func ListScripts(db *sql.DB, filter ScriptFilter) ([]models.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE 1=1`
	var args []any

	if filter.Product != "" {
		query += ` AND LOWER(product) = LOWER(?)`
		args = append(args, filter.Product)
	}
	if filter.Approach != "" {
		query += ` AND LOWER(approach) = LOWER(?)`
		args = append(args, filter.Approach)
	}
	if filter.SectionType != "" {
		query += ` AND section_type = ?`
		args = append(args, callflow.NormalizeSectionType(filter.SectionType))
	}
	if filter.ActiveOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scripts: %w", err)
	}
	defer rows.Close()

	var scripts []models.Script
	for rows.Next() {
		s, err := scanScript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan script: %w", err)
		}
		scripts = append(scripts, *s)
	}
	return scripts, rows.Err()
}

// UpdateScript replaces the editable fields and bumps the version.
func UpdateScript(db *sql.DB, id uuid.UUID, updates *models.Script) error {
	updates.UpdatedAt = time.Now()
	updates.SectionType = callflow.NormalizeSectionType(updates.SectionType)

	res, err := db.Exec(`
		UPDATE scripts
		SET name = ?, product = ?, approach = ?, trigger_type = ?, competitor = ?, competitor_id = ?,
			section_type = ?, content = ?, is_active = ?, version = version + 1, updated_at = ?
		WHERE id = ?
	`, updates.Name, updates.Product, updates.Approach, updates.TriggerType, updates.Competitor, updates.CompetitorID,
		updates.SectionType, updates.Content, updates.IsActive, updates.UpdatedAt, id.String())
	if err != nil {
		return fmt.Errorf("failed to update script: %w", err)
	}
	return requireAffected(res, "script", id)
}

func SetScriptActive(db *sql.DB, id uuid.UUID, active bool) error {
	res, err := db.Exec(`UPDATE scripts SET is_active = ?, updated_at = ? WHERE id = ?`, active, time.Now(), id.String())
	if err != nil {
		return fmt.Errorf("failed to update script: %w", err)
	}
	return requireAffected(res, "script", id)
}

func DeleteScript(db *sql.DB, id uuid.UUID) error {
	res, err := db.Exec(`DELETE FROM scripts WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete script: %w", err)
	}
	return requireAffected(res, "script", id)
}

// IncrementScriptUsage records that a script was shown during a call.
func IncrementScriptUsage(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`UPDATE scripts SET usage_count = usage_count + 1 WHERE id = ?`, id.String())
	return err
}

// ScriptRows returns every active script and objection as merge rows,
// scripts first and each group in creation order.
func ScriptRows(ctx context.Context, db *sql.DB) ([]callflow.ScriptRow, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+scriptColumns+` FROM scripts WHERE is_active = 1 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scripts: %w", err)
	}
	defer rows.Close()

	var out []callflow.ScriptRow
	for rows.Next() {
		s, err := scanScript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan script: %w", err)
		}
		out = append(out, s.Row())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	objections, err := listObjections(ctx, db, `WHERE is_active = 1 ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	for i := range objections {
		out = append(out, objections[i].Row())
	}
	return out, nil
}

func requireAffected(res sql.Result, kind string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %s", kind, id)
	}
	return nil
}
