package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"path"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/ecoleta/internal/models"
	"github.com/desertthunder/ecoleta/internal/shared"
	"github.com/desertthunder/ecoleta/internal/storage"
)

// Image is an uploaded point photo.
type Image struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Registry implements the point registry operations.
type Registry struct {
	items  models.ItemRepository
	points models.PointRepository
	images storage.ImageStore
	logger *log.Logger
}

// New creates a Registry. A nil logger falls back to [log.Default].
func New(items models.ItemRepository, points models.PointRepository, images storage.ImageStore, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{items: items, points: points, images: images, logger: logger}
}

// CreatePoint validates in, stores img when given and persists the point with its items.
//
// The image must be a png, jpeg, gif or webp both by its declared type and by its contents.
// Unknown item ids are rejected before anything is stored. The stored image is removed
// again when persistence fails.
func (r *Registry) CreatePoint(ctx context.Context, in models.PointInput, img *Image) (*models.Point, error) {
	point, itemIDs, err := in.Validate()

	var verrs models.ValidationErrors
	if err != nil && !errors.As(err, &verrs) {
		return nil, err
	}

	var body io.Reader
	var contentType string
	if img != nil {
		if contentType, body, err = storage.Sniff(img.Body); err != nil {
			return nil, err
		}
		if !storage.IsImage(img.ContentType) || !storage.IsImage(contentType) {
			r.logger.Warn("rejected upload", "filename", img.Filename, "declared", img.ContentType, "detected", contentType)
			verrs = append(verrs, models.FieldError{Field: "image", Message: "must be a png, jpeg, gif or webp image"})
		}
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	missing, err := r.items.Missing(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &models.UnknownItemsError{IDs: missing}
	}

	if img != nil {
		key, err := r.images.Store(ctx, contentType, body)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		point.Image = key
	}

	if err := r.points.Create(ctx, point, itemIDs); err != nil {
		r.discardImage(point.Image)
		return nil, err
	}

	point.ImageURL = r.images.URL(point.Image)
	r.logger.Info("point created", "id", point.ID, "uf", point.UF, "city", point.City, "items", len(itemIDs))
	return point, nil
}

// ListPoints returns the points collecting every item in filter.ItemIDs.
//
// An empty item set yields an empty list.
func (r *Registry) ListPoints(ctx context.Context, filter models.PointFilter) ([]models.Point, error) {
	if len(filter.ItemIDs) == 0 {
		return []models.Point{}, nil
	}

	points, err := r.points.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	for i := range points {
		points[i].ImageURL = r.images.URL(points[i].Image)
	}
	return points, nil
}

// GetPoint returns a point and the titles of its items.
func (r *Registry) GetPoint(ctx context.Context, id int64) (*models.PointDetail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", shared.ErrPointNotFound, id)
	}

	point, err := r.points.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	point.ImageURL = r.images.URL(point.Image)

	items, err := r.points.Items(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.PointDetail{Point: *point, Items: items}, nil
}

// ListItems returns the item catalog with resolved icon URLs.
func (r *Registry) ListItems(ctx context.Context) ([]models.Item, error) {
	items, err := r.items.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].ImageURL = r.images.URL(items[i].Image)
	}
	return items, nil
}

// SeedItems adds the given catalog entries that are not present yet.
func (r *Registry) SeedItems(ctx context.Context, items []models.Item) (int, error) {
	n, err := r.items.Seed(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("failed to seed items: %w", err)
	}
	r.logger.Debug("items seeded", "added", n)
	return n, nil
}

// InstallIcons writes the icon of every catalog item found in icons to the image store.
//
// Existing icons are overwritten. Items whose icon is absent from icons are skipped.
func (r *Registry) InstallIcons(ctx context.Context, icons fs.FS) (int, error) {
	items, err := r.items.List(ctx)
	if err != nil {
		return 0, err
	}

	installed := 0
	for _, item := range items {
		if item.Image == "" {
			continue
		}
		data, err := fs.ReadFile(icons, item.Image)
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("no icon shipped for item", "item", item.Title, "image", item.Image)
			continue
		} else if err != nil {
			return installed, fmt.Errorf("failed to read icon %s: %w", item.Image, err)
		}

		contentType := mime.TypeByExtension(path.Ext(item.Image))
		if err := r.images.Put(ctx, item.Image, contentType, bytes.NewReader(data)); err != nil {
			return installed, fmt.Errorf("failed to install icon %s: %w", item.Image, err)
		}
		installed++
	}

	r.logger.Debug("icons installed", "count", installed)
	return installed, nil
}

// discardImage runs with its own context so a cancelled request still cleans up.
func (r *Registry) discardImage(key string) {
	if key == "" {
		return
	}
	if err := r.images.Delete(context.Background(), key); err != nil {
		r.logger.Warn("failed to remove orphaned image", "key", key, "error", err)
	}
}
