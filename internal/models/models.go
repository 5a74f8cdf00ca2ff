// package models defines the data model for the collection point registry
package models

import (
	"context"
	"time"
)

// Item is a collectible waste category.
type Item struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Image    string `json:"-"`
	ImageURL string `json:"image_url"`
}

// Point is a registered waste-collection location.
type Point struct {
	ID        int64     `json:"id"`
	Image     string    `json:"image"`
	ImageURL  string    `json:"image_url"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Whatsapp  string    `json:"whatsapp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	City      string    `json:"city"`
	UF        string    `json:"uf"`
	CreatedAt time.Time `json:"created_at"`
}

// PointItem links a Point to an Item it accepts.
type PointItem struct {
	PointID int64 `json:"point_id"`
	ItemID  int64 `json:"item_id"`
}

// ItemTitle is the projection of an item shown in a point's detail.
type ItemTitle struct {
	Title string `json:"title"`
}

// PointDetail is a point together with the titles of its items, ordered by item id.
type PointDetail struct {
	Point Point       `json:"point"`
	Items []ItemTitle `json:"items"`
}

// PointFilter selects points by location and accepted items.
//
// A point matches when it accepts every id in ItemIDs. Empty UF or City do not constrain the result.
type PointFilter struct {
	UF      string
	City    string
	ItemIDs []int64
}

// Option is a {label, value} pair for location selectors.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ItemRepository defines data access for the item catalog.
type ItemRepository interface {
	List(ctx context.Context) ([]Item, error)                  // List returns every item ordered by id
	Seed(ctx context.Context, items []Item) (int, error)       // Seed inserts items missing from the catalog
	Missing(ctx context.Context, ids []int64) ([]int64, error) // Missing returns the ids with no catalog entry
}

// PointRepository defines data access for collection points and their item associations.
type PointRepository interface {
	Create(ctx context.Context, point *Point, itemIDs []int64) error // Create persists a point and its associations atomically
	Get(ctx context.Context, id int64) (*Point, error)               // Get retrieves a point by id
	Items(ctx context.Context, pointID int64) ([]ItemTitle, error)   // Items lists a point's items ordered by id
	List(ctx context.Context, filter PointFilter) ([]Point, error)   // List returns points matching filter
}
