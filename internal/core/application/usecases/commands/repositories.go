// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"pedidos/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// UserRepoFactory provides access to the user repository within a transaction.
	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	// CatalogRepoFactory provides access to the catalog repository within a transaction.
	CatalogRepoFactory interface {
		CatalogRepository() ports.CatalogRepository
	}

	// CityRepoFactory provides access to the city repository within a transaction.
	CityRepoFactory interface {
		CityRepository() ports.CityRepository
	}

	// OrderUoW manages transactions for order writes. Order commands also
	// read users (the acting user's name goes into the order log), so the
	// user repository rides along.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		UserRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// WorkflowUoW manages transactions for commands that additionally need
	// the city roster, such as deriving the actor's access level from the
	// principal-city flag.
	WorkflowUoW interface {
		TxManager
		OrderRepoFactory
		UserRepoFactory
		CityRepoFactory
	}

	// WorkflowUoWFactory creates new workflow unit of work instances.
	WorkflowUoWFactory interface {
		Create() WorkflowUoW
	}

	// CatalogUoW manages transactions for catalog maintenance.
	CatalogUoW interface {
		TxManager
		CatalogRepoFactory
	}

	// CatalogUoWFactory creates new catalog unit of work instances.
	CatalogUoWFactory interface {
		Create() CatalogUoW
	}
)
