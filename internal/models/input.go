package models

import (
	"fmt"
	"math"
	"net/mail"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/ecoleta/internal/shared"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every failing field of an input.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets callers match validation failures with errors.Is(err, shared.ErrInvalidInput).
func (v ValidationErrors) Is(target error) bool {
	return target == shared.ErrInvalidInput
}

func (v *ValidationErrors) add(field, format string, args ...any) {
	*v = append(*v, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// PointInput is the raw create payload as submitted by a client form.
type PointInput struct {
	Name      string
	Email     string
	Whatsapp  string
	Latitude  string
	Longitude string
	City      string
	UF        string
	Items     string // comma-separated item ids
}

// Validate checks every field and converts the input into a [Point] and its item ids.
//
// The returned error is always [ValidationErrors] when non-nil.
func (in PointInput) Validate() (*Point, []int64, error) {
	var errs ValidationErrors

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs.add("name", "is required")
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		errs.add("email", "is required")
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		errs.add("email", "must be a valid email")
	}

	whatsapp := strings.TrimSpace(in.Whatsapp)
	if whatsapp == "" {
		errs.add("whatsapp", "is required")
	} else if len(whatsapp) != 11 || !isDigits(whatsapp) {
		errs.add("whatsapp", "must be exactly 11 digits")
	}

	latitude := parseCoordinate(&errs, "latitude", in.Latitude, 90)
	longitude := parseCoordinate(&errs, "longitude", in.Longitude, 180)

	city := strings.TrimSpace(in.City)
	if city == "" {
		errs.add("city", "is required")
	}

	uf := strings.ToUpper(strings.TrimSpace(in.UF))
	if uf == "" {
		errs.add("uf", "is required")
	} else if len(uf) != 2 || !isLetters(uf) {
		errs.add("uf", "must be exactly 2 letters")
	}

	var itemIDs []int64
	if strings.TrimSpace(in.Items) == "" {
		errs.add("items", "is required")
	} else if ids, err := ParseItemIDs(in.Items); err != nil {
		errs.add("items", "%v", err)
	} else if len(ids) == 0 {
		errs.add("items", "must reference at least one item")
	} else {
		itemIDs = ids
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}

	return &Point{
		Name:      name,
		Email:     email,
		Whatsapp:  whatsapp,
		Latitude:  latitude,
		Longitude: longitude,
		City:      city,
		UF:        uf,
	}, itemIDs, nil
}

// ParseItemIDs parses comma-separated item ids, one or more per value.
//
// Blank entries are skipped; duplicates collapse; the result is sorted ascending.
func ParseItemIDs(values ...string) ([]int64, error) {
	seen := make(map[int64]struct{})
	for _, value := range values {
		for _, raw := range strings.Split(value, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid item id %q", raw)
			}
			seen[id] = struct{}{}
		}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func parseCoordinate(errs *ValidationErrors, field, raw string, limit float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs.add(field, "is required")
		return 0
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		errs.add(field, "must be a number")
		return 0
	}
	if v < -limit || v > limit {
		errs.add(field, "must be between %v and %v", -limit, limit)
		return 0
	}
	return v
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
