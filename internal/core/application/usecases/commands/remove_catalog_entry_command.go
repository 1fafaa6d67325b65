package commands

import (
	"errors"

	"pedidos/internal/core/domain/model/catalog"
	"pedidos/internal/pkg/guard"
)

var (
	ErrRemoveCatalogEntryCommandIsNotConstructed = errors.New(
		"RemoveCatalogEntryCommand must be created via NewRemoveCatalogEntryCommand constructor",
	)
	ErrEntryIDIsRequired = errors.New("catalog entry id is required")
)

// RemoveCatalogEntryCommand represents a request to delete a catalog entry
// such as a product, presentation or destination. Entries referenced by
// existing orders are protected.
type RemoveCatalogEntryCommand struct { //nolint:recvcheck //using for validation
	kind    catalog.Kind
	entryID string

	guard guard.ConstructorGuard
}

// NewRemoveCatalogEntryCommand creates a command to delete a catalog entry.
func NewRemoveCatalogEntryCommand(kind catalog.Kind, entryID string) (RemoveCatalogEntryCommand, error) {
	cmd := RemoveCatalogEntryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setKind(kind),
		cmd.setEntryID(entryID),
	); err != nil {
		return RemoveCatalogEntryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RemoveCatalogEntryCommand) Validate() error {
	return c.guard.Validate(ErrRemoveCatalogEntryCommandIsNotConstructed)
}

// Kind returns the catalog entry kind.
func (c RemoveCatalogEntryCommand) Kind() catalog.Kind {
	return c.kind
}

// EntryID returns the identifier of the entry to delete.
func (c RemoveCatalogEntryCommand) EntryID() string {
	return c.entryID
}

func (c *RemoveCatalogEntryCommand) setKind(kind catalog.Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	c.kind = kind
	return nil
}

func (c *RemoveCatalogEntryCommand) setEntryID(entryID string) error {
	if entryID == "" {
		return ErrEntryIDIsRequired
	}

	c.entryID = entryID
	return nil
}
