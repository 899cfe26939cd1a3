package database

import (
	"fmt"
	"io/fs"
	"sort"

	dbsql "mindloom/pkg/database/sql"
	"mindloom/pkg/logging"
)

// ApplySchema executes the embedded schema files in lexical order. Statements
// use IF NOT EXISTS so repeated application is safe.
func ApplySchema(db PostgresConn, logger logging.Logger) error {
	entries, err := fs.Glob(dbsql.Content, "schema/*.sql")
	if err != nil {
		return fmt.Errorf("list schema files: %w", err)
	}
	sort.Strings(entries)

	for _, name := range entries {
		content, err := fs.ReadFile(dbsql.Content, name)
		if err != nil {
			return fmt.Errorf("read schema file %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("apply schema file %s: %w", name, err)
		}
		logger.WithFields(logging.Fields{"file": name}).Info("Applied schema file")
	}
	return nil
}
