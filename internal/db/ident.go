package db

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/pgload/pkg/pgload"
)

// QuoteTable turns "table" or "schema.table" into a safely quoted identifier.
// Table names come from flags and pgload.yaml, never from event data.
func QuoteTable(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("table name is empty: %w", pgload.ErrInvalidConfig)
	}
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return "", fmt.Errorf("table name %q has more than schema.table: %w", name, pgload.ErrInvalidConfig)
	}
	for _, p := range parts {
		if p == "" {
			return "", fmt.Errorf("table name %q has an empty part: %w", name, pgload.ErrInvalidConfig)
		}
	}
	return pgx.Identifier(parts).Sanitize(), nil
}
