package ports

import (
	"context"

	"judgefit/domain/pattern"
)

// ProposalStorePort persists the provisional proposal list between
// iterations. Same single-writer full-reload/full-rewrite contract as the
// pattern store.
type ProposalStorePort interface {
	Load(ctx context.Context) ([]pattern.Proposal, error)
	Save(ctx context.Context, proposals []pattern.Proposal) error
}
