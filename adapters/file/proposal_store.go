package file

import (
	"context"
	"fmt"
	"os"

	"judgefit/domain/core"
	"judgefit/domain/pattern"
)

// proposalDocument is the on-disk envelope for the provisional list.
type proposalDocument struct {
	LastUpdated core.Timestamp     `json:"last_updated"`
	Proposals   []pattern.Proposal `json:"proposals"`
}

// ProposalStore persists the provisional proposal list.
type ProposalStore struct {
	path string
}

// NewProposalStore creates a proposal store backed by path.
func NewProposalStore(path string) *ProposalStore {
	return &ProposalStore{path: path}
}

// Load reads the persisted proposal list. Missing file means no proposals
// yet; a malformed file is fatal.
func (s *ProposalStore) Load(ctx context.Context) ([]pattern.Proposal, error) {
	var doc proposalDocument
	if err := readJSON(s.path, &doc); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, core.NewCorruptStoreError(s.path, err)
	}
	for i := range doc.Proposals {
		if err := doc.Proposals[i].Pattern.Validate(); err != nil {
			return nil, fmt.Errorf("%w: proposal %d: %v", core.ErrCorruptStore, i, err)
		}
	}
	return doc.Proposals, nil
}

// Save atomically rewrites the full proposal list.
func (s *ProposalStore) Save(ctx context.Context, proposals []pattern.Proposal) error {
	doc := proposalDocument{
		LastUpdated: core.Now(),
		Proposals:   proposals,
	}
	if err := writeJSONAtomic(s.path, doc); err != nil {
		return core.NewPersistError(s.path, err)
	}
	return nil
}
