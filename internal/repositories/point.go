package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/ecoleta/internal/models"
	"github.com/desertthunder/ecoleta/internal/shared"
)

var _ models.PointRepository = (*PointRepository)(nil)

const pointColumns = "p.id, p.image, p.name, p.email, p.whatsapp, p.latitude, p.longitude, p.city, p.uf, p.created_at"

// PointRepository implements [models.PointRepository] for collection points and their item associations.
type PointRepository struct {
	db *sql.DB
}

// NewPointRepository creates a new PointRepository with the given database connection
func NewPointRepository(db *sql.DB) *PointRepository {
	return &PointRepository{db: db}
}

// Create inserts the point and one association row per item id in a single transaction.
//
// Unknown item ids abort the transaction with a [*models.UnknownItemsError]. On success the point's ID and
// CreatedAt are populated.
func (r *PointRepository) Create(ctx context.Context, point *models.Point, itemIDs []int64) error {
	if len(itemIDs) == 0 {
		return fmt.Errorf("%w: point must reference at least one item", shared.ErrInvalidInput)
	}

	itemIDs = dedupe(itemIDs)
	createdAt := time.Now().UTC().Truncate(time.Second)

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		missing, err := missingItems(ctx, tx, itemIDs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return &models.UnknownItemsError{IDs: missing}
		}

		query := `
			INSERT INTO points (image, name, email, whatsapp, latitude, longitude, city, uf, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		result, err := tx.ExecContext(ctx, query,
			point.Image,
			point.Name,
			point.Email,
			point.Whatsapp,
			point.Latitude,
			point.Longitude,
			point.City,
			point.UF,
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert point: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read point id: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, "INSERT INTO point_items (point_id, item_id) VALUES (?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare point items: %w", err)
		}
		defer stmt.Close()

		for _, itemID := range itemIDs {
			if _, err := stmt.ExecContext(ctx, id, itemID); err != nil {
				return fmt.Errorf("failed to link item %d: %w", itemID, err)
			}
		}

		point.ID = id
		return nil
	})
	if err != nil {
		return err
	}

	point.CreatedAt = createdAt
	return nil
}

// Get retrieves a point by id, returning [shared.ErrPointNotFound] when no row matches
func (r *PointRepository) Get(ctx context.Context, id int64) (*models.Point, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+pointColumns+" FROM points p WHERE p.id = ?", id)

	point, err := scanPoint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", shared.ErrPointNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get point: %w", err)
	}
	return point, nil
}

// Items returns the titles of the items collected at a point, ordered by item id
func (r *PointRepository) Items(ctx context.Context, pointID int64) ([]models.ItemTitle, error) {
	query := `
		SELECT i.title
		FROM items i
		JOIN point_items pi ON pi.item_id = i.id
		WHERE pi.point_id = ?
		ORDER BY i.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, pointID)
	if err != nil {
		return nil, fmt.Errorf("failed to query point items: %w", err)
	}
	defer rows.Close()

	titles := []models.ItemTitle{}
	for rows.Next() {
		var title models.ItemTitle
		if err := rows.Scan(&title.Title); err != nil {
			return nil, fmt.Errorf("failed to scan item title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return titles, nil
}

// List returns the points that collect every item in filter.ItemIDs, narrowed by state and city when set.
//
// An empty item set matches nothing. Results are ordered by point id.
func (r *PointRepository) List(ctx context.Context, filter models.PointFilter) ([]models.Point, error) {
	points := []models.Point{}
	if len(filter.ItemIDs) == 0 {
		return points, nil
	}

	ids := dedupe(filter.ItemIDs)
	placeholders, args := inClause(ids)

	var b strings.Builder
	b.WriteString("SELECT " + pointColumns + " FROM points p JOIN point_items pi ON pi.point_id = p.id")
	b.WriteString(" WHERE pi.item_id IN (" + placeholders + ")")
	if uf := strings.TrimSpace(filter.UF); uf != "" {
		b.WriteString(" AND p.uf = ?")
		args = append(args, strings.ToUpper(uf))
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		b.WriteString(" AND p.city = ?")
		args = append(args, city)
	}
	b.WriteString(" GROUP BY p.id HAVING COUNT(DISTINCT pi.item_id) = ? ORDER BY p.id ASC")
	args = append(args, len(ids))

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		point, err := scanPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, *point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return points, nil
}

func scanPoint(s scanner) (*models.Point, error) {
	var p models.Point
	err := s.Scan(
		&p.ID,
		&p.Image,
		&p.Name,
		&p.Email,
		&p.Whatsapp,
		&p.Latitude,
		&p.Longitude,
		&p.City,
		&p.UF,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
