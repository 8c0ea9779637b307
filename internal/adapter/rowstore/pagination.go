package rowstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultPageSize is used when callers do not specify a page size.
const DefaultPageSize = 200

// ListAll pages through a table, appending rows until the store returns a
// page shorter than the requested size. The cursor advances to the last
// row's id after each page. Errors propagate to the caller; there is no
// retry, and a failed run restarts from scratch.
func ListAll(ctx context.Context, c Client, table string, base []Query, pageSize int) ([]json.RawMessage, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var rows []json.RawMessage
	cursor := ""
	for {
		queries := make([]Query, 0, len(base)+2)
		queries = append(queries, base...)
		queries = append(queries, Limit(pageSize))
		if cursor != "" {
			queries = append(queries, CursorAfter(cursor))
		}

		page, err := c.ListRows(ctx, table, queries)
		if err != nil {
			return nil, err
		}

		rows = append(rows, page.Rows...)
		if len(page.Rows) < pageSize {
			return rows, nil
		}

		id, err := RowID(page.Rows[len(page.Rows)-1])
		if err != nil {
			return nil, err
		}
		cursor = id
	}
}

// RowID extracts the store-assigned identifier from a raw row.
func RowID(row json.RawMessage) (string, error) {
	var meta struct {
		ID string `json:"$id"`
	}
	if err := json.Unmarshal(row, &meta); err != nil {
		return "", fmt.Errorf("decode row id: %w", err)
	}
	if meta.ID == "" {
		return "", fmt.Errorf("row has no id")
	}
	return meta.ID, nil
}
