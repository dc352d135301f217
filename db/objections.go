// ABOUTME: Objection library database operations
// ABOUTME: Stores standalone objection responses with JSON-encoded alternatives
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/models"
)

const objectionColumns = `id, objection, response, alternatives, category, product, approach, competitor, is_active, usage_count, created_at, updated_at`

func scanObjection(s rowScanner) (*models.Objection, error) {
	var o models.Objection
	var alternatives, category, product, approach, competitor sql.NullString
	if err := s.Scan(&o.ID, &o.Objection, &o.Response, &alternatives, &category, &product, &approach, &competitor,
		&o.IsActive, &o.UsageCount, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Category = category.String
	o.Product = product.String
	o.Approach = approach.String
	o.Competitor = competitor.String
	if alternatives.Valid && alternatives.String != "" {
		if err := json.Unmarshal([]byte(alternatives.String), &o.Alternatives); err != nil {
			return nil, fmt.Errorf("failed to decode alternatives: %w", err)
		}
	}
	return &o, nil
}

func encodeAlternatives(alts []string) (string, error) {
	if len(alts) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(alts)
	if err != nil {
		return "", fmt.Errorf("failed to encode alternatives: %w", err)
	}
	return string(b), nil
}

func CreateObjection(db *sql.DB, obj *models.Objection) error {
	if strings.TrimSpace(obj.Objection) == "" || strings.TrimSpace(obj.Response) == "" {
		return fmt.Errorf("objection and response are required")
	}
	alts, err := encodeAlternatives(obj.Alternatives)
	if err != nil {
		return err
	}

	obj.ID = uuid.New()
	now := time.Now()
	obj.CreatedAt = now
	obj.UpdatedAt = now

	_, err = db.Exec(`
		INSERT INTO objections (`+objectionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, obj.ID.String(), obj.Objection, obj.Response, alts, obj.Category, obj.Product, obj.Approach, obj.Competitor,
		obj.IsActive, obj.UsageCount, obj.CreatedAt, obj.UpdatedAt)

	return err
}

func GetObjection(db *sql.DB, id uuid.UUID) (*models.Objection, error) {
	obj, err := scanObjection(db.QueryRow(`SELECT `+objectionColumns+` FROM objections WHERE id = ?`, id.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return obj, err
}

// FindObjections searches objection and response text. An empty product
// matches all products.
func FindObjections(db *sql.DB, query, product string, limit int) ([]models.Objection, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(query) + "%"
	return listObjections(context.Background(), db, `
		WHERE (LOWER(objection) LIKE ? OR LOWER(response) LIKE ?)
		AND (? = '' OR LOWER(product) = LOWER(?))
		ORDER BY usage_count DESC, created_at ASC
		LIMIT ?`, pattern, pattern, product, product, limit)
}

func listObjections(ctx context.Context, db *sql.DB, where string, args ...any) ([]models.Objection, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+objectionColumns+` FROM objections `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query objections: %w", err)
	}
	defer rows.Close()

	var objections []models.Objection
	for rows.Next() {
		o, err := scanObjection(rows)
		if err != nil {
			return nil, err
		}
		objections = append(objections, *o)
	}
	return objections, rows.Err()
}

func UpdateObjection(db *sql.DB, id uuid.UUID, updates *models.Objection) error {
	alts, err := encodeAlternatives(updates.Alternatives)
	if err != nil {
		return err
	}
	updates.UpdatedAt = time.Now()

	res, err := db.Exec(`
		UPDATE objections
		SET objection = ?, response = ?, alternatives = ?, category = ?, product = ?, approach = ?,
			competitor = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`, updates.Objection, updates.Response, alts, updates.Category, updates.Product, updates.Approach,
		updates.Competitor, updates.IsActive, updates.UpdatedAt, id.String())
	if err != nil {
		return fmt.Errorf("failed to update objection: %w", err)
	}
	return requireAffected(res, "objection", id)
}

func DeleteObjection(db *sql.DB, id uuid.UUID) error {
	res, err := db.Exec(`DELETE FROM objections WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete objection: %w", err)
	}
	return requireAffected(res, "objection", id)
}

func IncrementObjectionUsage(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`UPDATE objections SET usage_count = usage_count + 1 WHERE id = ?`, id.String())
	return err
}
