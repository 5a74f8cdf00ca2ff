package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/ecoleta/internal/shared"
)

// UnknownItemsError reports item ids referenced by a point that have no catalog entry.
type UnknownItemsError struct {
	IDs []int64
}

func (e *UnknownItemsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("unknown item ids: %s", strings.Join(ids, ", "))
}

// Is lets callers match with errors.Is(err, shared.ErrUnknownItems).
func (e *UnknownItemsError) Is(target error) bool {
	return target == shared.ErrUnknownItems
}
