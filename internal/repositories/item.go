package repositories

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/desertthunder/ecoleta/internal/models"
)

var _ models.ItemRepository = (*ItemRepository)(nil)

//go:embed icons/*.svg
var iconFiles embed.FS

// DefaultIcons holds the SVG icon for every entry of [DefaultItems], keyed by its Image name.
var DefaultIcons fs.FS = mustSub(iconFiles, "icons")

// DefaultItems is the catalog of collectible waste categories seeded on setup.
//
// Image holds the icon file name served from the uploads location.
var DefaultItems = []models.Item{
	{Title: "Lâmpadas", Image: "lampadas.svg"},
	{Title: "Pilhas e Baterias", Image: "baterias.svg"},
	{Title: "Papéis e Papelão", Image: "papeis-papelao.svg"},
	{Title: "Resíduos Eletrônicos", Image: "eletronicos.svg"},
	{Title: "Resíduos Orgânicos", Image: "organicos.svg"},
	{Title: "Óleo de Cozinha", Image: "oleo.svg"},
}

// ItemRepository implements [models.ItemRepository] for the read-only item catalog.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new ItemRepository with the given database connection
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// List retrieves every item ordered by id
func (r *ItemRepository) List(ctx context.Context) ([]models.Item, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title, image FROM items ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Title, &item.Image); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// Seed inserts the given items, skipping titles already in the catalog, and returns how many were added.
func (r *ItemRepository) Seed(ctx context.Context, items []models.Item) (int, error) {
	inserted := 0
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO items (title, image) VALUES (?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare item seed: %w", err)
		}
		defer stmt.Close()

		for _, item := range items {
			result, err := stmt.ExecContext(ctx, item.Title, item.Image)
			if err != nil {
				return fmt.Errorf("failed to seed item %q: %w", item.Title, err)
			}
			if n, err := result.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Missing returns the ids that have no catalog entry
func (r *ItemRepository) Missing(ctx context.Context, ids []int64) ([]int64, error) {
	return missingItems(ctx, r.db, ids)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(fmt.Sprintf("failed to open embedded %s: %v", dir, err))
	}
	return sub
}
