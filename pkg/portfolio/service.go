package portfolio

import "context"

// Service is the content-management core consumed by the admin API and the
// manager CLI.
type Service interface {
	// Creation
	AddItem(ctx context.Context, req AddItemRequest) (*MediaEntry, error)
	AddItemFromURL(ctx context.Context, req AddItemFromURLRequest) (*MediaEntry, error)
	BulkAdd(ctx context.Context, reqs []AddItemRequest) (*BulkResult, error)

	// Lookup
	GetItem(ctx context.Context, category, id string) (*MediaEntry, error)
	ListAll(ctx context.Context) (map[string][]*MediaEntry, error)

	// Mutation
	DeleteItem(ctx context.Context, category, id string) error
	UpdateItem(ctx context.Context, req UpdateItemRequest) error

	// Pile operations
	MoveToPile(ctx context.Context, req MoveToPileRequest) (int, error)
	ExtractFromPile(ctx context.Context, req ExtractFromPileRequest) (*ExtractResult, error)
	AddToPile(ctx context.Context, req AddToPileRequest) (int, error)
}
