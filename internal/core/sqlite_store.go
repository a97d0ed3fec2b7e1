package core

import "plantsim/internal/infra/persistence/sqlite"

// NewSQLiteStore opens (or creates) the SQLite snapshot store at path.
// An empty path selects plantsim.db in the working directory.
func NewSQLiteStore(path string, engine *RulesEngine) (*sqlite.Store, error) {
	return sqlite.NewStore(path, engine)
}
