package core

import "plantsim/internal/infra/persistence/postgres"

// NewPostgresStore connects the PostgreSQL snapshot store using dsn.
func NewPostgresStore(dsn string, engine *RulesEngine) (*postgres.Store, error) {
	return postgres.NewStore(dsn, engine)
}
