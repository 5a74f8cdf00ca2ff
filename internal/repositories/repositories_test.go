package repositories

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/ecoleta/internal/models"
	"github.com/desertthunder/ecoleta/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied and the default items seeded
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	if _, err := NewItemRepository(db).Seed(context.Background(), DefaultItems); err != nil {
		db.Close()
		t.Fatalf("failed to seed items: %v", err)
	}

	return db
}

func newPoint(name, city, uf string) *models.Point {
	return &models.Point{
		Image:     "market.jpg",
		Name:      name,
		Email:     "contact@example.com",
		Whatsapp:  "11999999999",
		Latitude:  -23.55,
		Longitude: -46.63,
		City:      city,
		UF:        uf,
	}
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

func TestItemRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("List returns seeded items ordered by id", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		items, err := NewItemRepository(db).List(ctx)
		if err != nil {
			t.Fatalf("failed to list items: %v", err)
		}

		if len(items) != len(DefaultItems) {
			t.Fatalf("expected %d items, got %d", len(DefaultItems), len(items))
		}

		for i, item := range items {
			if item.ID != int64(i+1) {
				t.Errorf("expected id %d at position %d, got %d", i+1, i, item.ID)
			}
			if item.Title != DefaultItems[i].Title {
				t.Errorf("expected title %q, got %q", DefaultItems[i].Title, item.Title)
			}
		}
	})

	t.Run("List is stable across calls", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		first, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list items: %v", err)
		}
		second, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list items: %v", err)
		}

		if !reflect.DeepEqual(first, second) {
			t.Errorf("expected identical listings, got %v and %v", first, second)
		}
	})

	t.Run("Seed is idempotent", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		n, err := NewItemRepository(db).Seed(ctx, DefaultItems)
		if err != nil {
			t.Fatalf("failed to reseed: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 new items, got %d", n)
		}
		if got := countRows(t, db, "items"); got != len(DefaultItems) {
			t.Errorf("expected %d items, got %d", len(DefaultItems), got)
		}
	})

	t.Run("List on empty catalog", func(t *testing.T) {
		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create test database: %v", err)
		}
		defer db.Close()
		if err := shared.RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		items, err := NewItemRepository(db).List(ctx)
		if err != nil {
			t.Fatalf("failed to list items: %v", err)
		}
		if items == nil || len(items) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", items)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		missing, err := NewItemRepository(db).Missing(ctx, []int64{1, 42, 3, 99})
		if err != nil {
			t.Fatalf("failed to check items: %v", err)
		}
		if !reflect.DeepEqual(missing, []int64{42, 99}) {
			t.Errorf("expected [42 99], got %v", missing)
		}
	})
}

func TestPointRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create links every item", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPointRepository(db)
		point := newPoint("Mercado", "São Paulo", "SP")

		if err := repo.Create(ctx, point, []int64{1, 2, 3}); err != nil {
			t.Fatalf("failed to create point: %v", err)
		}

		if point.ID == 0 {
			t.Error("point ID should be set after creation")
		}
		if point.CreatedAt.IsZero() {
			t.Error("point CreatedAt should be set after creation")
		}
		if got := countRows(t, db, "point_items"); got != 3 {
			t.Errorf("expected 3 associations, got %d", got)
		}
	})

	t.Run("Create collapses duplicate items", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if err := NewPointRepository(db).Create(ctx, newPoint("Mercado", "Recife", "PE"), []int64{2, 2, 4}); err != nil {
			t.Fatalf("failed to create point: %v", err)
		}
		if got := countRows(t, db, "point_items"); got != 2 {
			t.Errorf("expected 2 associations, got %d", got)
		}
	})

	t.Run("Create rejects unknown items atomically", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		err := NewPointRepository(db).Create(ctx, newPoint("Mercado", "Recife", "PE"), []int64{1, 99})
		if !errors.Is(err, shared.ErrUnknownItems) {
			t.Fatalf("expected ErrUnknownItems, got %v", err)
		}

		var unknown *models.UnknownItemsError
		if !errors.As(err, &unknown) {
			t.Fatalf("expected UnknownItemsError, got %T", err)
		}
		if !reflect.DeepEqual(unknown.IDs, []int64{99}) {
			t.Errorf("expected missing [99], got %v", unknown.IDs)
		}

		if got := countRows(t, db, "points"); got != 0 {
			t.Errorf("expected no points, got %d", got)
		}
		if got := countRows(t, db, "point_items"); got != 0 {
			t.Errorf("expected no associations, got %d", got)
		}
	})

	t.Run("Create rolls back point when linking fails", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		trigger := `
			CREATE TRIGGER reject_links BEFORE INSERT ON point_items
			WHEN NEW.item_id = 2
			BEGIN
				SELECT RAISE(ABORT, 'link rejected');
			END;
		`
		if _, err := db.Exec(trigger); err != nil {
			t.Fatalf("failed to create trigger: %v", err)
		}

		point := newPoint("Mercado", "Recife", "PE")
		err := NewPointRepository(db).Create(ctx, point, []int64{1, 2})
		if err == nil || !strings.Contains(err.Error(), "link rejected") {
			t.Fatalf("expected link failure, got %v", err)
		}
		if point.ID != 0 {
			t.Errorf("expected point id to stay unset, got %d", point.ID)
		}

		if got := countRows(t, db, "points"); got != 0 {
			t.Errorf("expected point insert to be rolled back, got %d rows", got)
		}
		if got := countRows(t, db, "point_items"); got != 0 {
			t.Errorf("expected no associations, got %d", got)
		}
	})

	t.Run("Create requires items", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		err := NewPointRepository(db).Create(ctx, newPoint("Mercado", "Recife", "PE"), nil)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Get round trips fields", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPointRepository(db)
		point := newPoint("Mercado", "São Paulo", "SP")
		if err := repo.Create(ctx, point, []int64{1}); err != nil {
			t.Fatalf("failed to create point: %v", err)
		}

		got, err := repo.Get(ctx, point.ID)
		if err != nil {
			t.Fatalf("failed to get point: %v", err)
		}

		if got.Name != point.Name || got.City != point.City || got.UF != point.UF {
			t.Errorf("expected %+v, got %+v", point, got)
		}
		if got.Latitude != point.Latitude || got.Longitude != point.Longitude {
			t.Errorf("expected coordinates (%v, %v), got (%v, %v)", point.Latitude, point.Longitude, got.Latitude, got.Longitude)
		}
		if !got.CreatedAt.Equal(point.CreatedAt) {
			t.Errorf("expected created_at %v, got %v", point.CreatedAt, got.CreatedAt)
		}
	})

	t.Run("Get missing point", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewPointRepository(db).Get(ctx, 9999)
		if !errors.Is(err, shared.ErrPointNotFound) {
			t.Errorf("expected ErrPointNotFound, got %v", err)
		}
	})

	t.Run("Items ordered by item id", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPointRepository(db)
		point := newPoint("Mercado", "São Paulo", "SP")
		if err := repo.Create(ctx, point, []int64{6, 1}); err != nil {
			t.Fatalf("failed to create point: %v", err)
		}

		titles, err := repo.Items(ctx, point.ID)
		if err != nil {
			t.Fatalf("failed to get point items: %v", err)
		}

		expected := []models.ItemTitle{{Title: DefaultItems[0].Title}, {Title: DefaultItems[5].Title}}
		if !reflect.DeepEqual(titles, expected) {
			t.Errorf("expected %v, got %v", expected, titles)
		}
	})
}

func TestPointRepositoryList(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	defer db.Close()

	repo := NewPointRepository(db)
	fixtures := []struct {
		point *models.Point
		items []int64
	}{
		{newPoint("A", "Rio", "RJ"), []int64{1, 2}},
		{newPoint("B", "Rio", "RJ"), []int64{2}},
		{newPoint("C", "Niterói", "RJ"), []int64{1, 2, 3}},
		{newPoint("D", "Rio", "SP"), []int64{1, 2}},
	}
	for _, f := range fixtures {
		if err := repo.Create(ctx, f.point, f.items); err != nil {
			t.Fatalf("failed to create point %s: %v", f.point.Name, err)
		}
	}

	tests := []struct {
		name     string
		filter   models.PointFilter
		expected []string
	}{
		{"intersection within state and city", models.PointFilter{UF: "RJ", City: "Rio", ItemIDs: []int64{1, 2}}, []string{"A"}},
		{"single item", models.PointFilter{UF: "RJ", City: "Rio", ItemIDs: []int64{2}}, []string{"A", "B"}},
		{"state only", models.PointFilter{UF: "RJ", ItemIDs: []int64{1, 2}}, []string{"A", "C"}},
		{"no location filter", models.PointFilter{ItemIDs: []int64{1, 2}}, []string{"A", "C", "D"}},
		{"lowercase state", models.PointFilter{UF: "rj", City: "Rio", ItemIDs: []int64{2}}, []string{"A", "B"}},
		{"duplicate ids", models.PointFilter{ItemIDs: []int64{3, 3}}, []string{"C"}},
		{"unknown item", models.PointFilter{ItemIDs: []int64{1, 99}}, []string{}},
		{"empty item set", models.PointFilter{UF: "RJ", City: "Rio"}, []string{}},
		{"no match", models.PointFilter{UF: "AM", ItemIDs: []int64{1}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("failed to list points: %v", err)
			}
			if points == nil {
				t.Fatal("expected non-nil slice")
			}

			names := make([]string, len(points))
			for i, p := range points {
				names[i] = p.Name
			}
			if !reflect.DeepEqual(names, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, names)
			}
		})
	}
}

func TestDefaultIcons(t *testing.T) {
	for _, item := range DefaultItems {
		data, err := fs.ReadFile(DefaultIcons, item.Image)
		if err != nil {
			t.Errorf("missing icon for %s: %v", item.Title, err)
			continue
		}
		if !strings.Contains(string(data), "<svg") {
			t.Errorf("%s is not an svg document", item.Image)
		}
	}
}
