package core

import (
	"plantsim/internal/infra/persistence/memory"
	"plantsim/pkg/domain"
)

type (
	// MemoryStore is the transactional in-memory store.
	MemoryStore = memory.Store
	// Transaction aliases domain.Transaction.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView.
	TransactionView = domain.TransactionView
	// PersistentStore aliases domain.PersistentStore.
	PersistentStore = domain.PersistentStore
)

// NewMemoryStore constructs an in-memory store evaluating engine on every commit.
func NewMemoryStore(engine *RulesEngine) *MemoryStore {
	return memory.NewStore(engine)
}
