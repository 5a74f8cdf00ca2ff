// package formatter provides functions to export collection points to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/ecoleta/internal/models"
	"github.com/desertthunder/ecoleta/internal/shared"
)

// Format names accepted by [Render].
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatText     = "text"
)

var csvHeaders = []string{"ID", "Name", "Email", "WhatsApp", "City", "UF", "Latitude", "Longitude", "Image URL", "Created At"}

// PointsToCSV converts points to CSV with one row per point
func PointsToCSV(points []models.Point) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range points {
		record := []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Email,
			p.Whatsapp,
			p.City,
			p.UF,
			strconv.FormatFloat(p.Latitude, 'f', -1, 64),
			strconv.FormatFloat(p.Longitude, 'f', -1, 64),
			p.ImageURL,
			formatTime(p.CreatedAt),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PointsToMarkdown renders points as a Markdown table under a heading describing the filter
func PointsToMarkdown(points []models.Point, filter models.PointFilter) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Collection points%s\n\n", describeLocation(filter)))
	if len(filter.ItemIDs) > 0 {
		buf.WriteString(fmt.Sprintf("**Items**: %s\n\n", joinIDs(filter.ItemIDs)))
	}
	buf.WriteString(fmt.Sprintf("**Points**: %d\n\n", len(points)))

	if len(points) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| ID | Name | City | UF | WhatsApp | Email |\n")
	buf.WriteString("|---|---|---|---|---|---|\n")
	for _, p := range points {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s |\n",
			p.ID, escapeCell(p.Name), escapeCell(p.City), p.UF, p.Whatsapp, escapeCell(p.Email)))
	}

	return buf.Bytes(), nil
}

// PointsToText converts points to plain text, one line per point
func PointsToText(points []models.Point) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Points: %d\n\n", len(points)))
	for _, p := range points {
		buf.WriteString(fmt.Sprintf("%d. %s - %s/%s (%s)\n", p.ID, p.Name, p.City, p.UF, p.Whatsapp))
	}

	return buf.Bytes(), nil
}

// PointDetailToText renders a single point and its items
func PointDetailToText(detail *models.PointDetail) ([]byte, error) {
	var buf bytes.Buffer
	p := detail.Point

	buf.WriteString(fmt.Sprintf("Point: %s (#%d)\n", p.Name, p.ID))
	buf.WriteString(fmt.Sprintf("Location: %s/%s\n", p.City, p.UF))
	buf.WriteString(fmt.Sprintf("Coordinates: %s, %s\n",
		strconv.FormatFloat(p.Latitude, 'f', -1, 64), strconv.FormatFloat(p.Longitude, 'f', -1, 64)))
	buf.WriteString(fmt.Sprintf("Email: %s\n", p.Email))
	buf.WriteString(fmt.Sprintf("WhatsApp: %s\n", p.Whatsapp))
	if p.ImageURL != "" {
		buf.WriteString(fmt.Sprintf("Image: %s\n", p.ImageURL))
	}

	buf.WriteString("\nItems:\n")
	for _, item := range detail.Items {
		buf.WriteString(fmt.Sprintf("  - %s\n", item.Title))
	}

	return buf.Bytes(), nil
}

// Render dispatches to the exporter for format.
func Render(format string, points []models.Point, filter models.PointFilter) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return shared.MarshalJSON(points, true)
	case FormatCSV:
		return PointsToCSV(points)
	case FormatMarkdown, "markdown":
		return PointsToMarkdown(points, filter)
	case FormatText, "txt":
		return PointsToText(points)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders points and writes them to path.
func WriteExport(path, format string, points []models.Point, filter models.PointFilter) error {
	data, err := Render(format, points, filter)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func describeLocation(filter models.PointFilter) string {
	switch {
	case filter.City != "" && filter.UF != "":
		return fmt.Sprintf(" in %s/%s", filter.City, strings.ToUpper(filter.UF))
	case filter.UF != "":
		return " in " + strings.ToUpper(filter.UF)
	case filter.City != "":
		return " in " + filter.City
	}
	return ""
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
