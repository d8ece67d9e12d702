// Package repository provides read-only access to the campaign, content and
// social account records the reports are computed from.
package repository

import (
	"context"

	"github.com/okian/mawsim/internal/domain/model"
)

// Collection names, shared by the fixture file, MongoDB and metrics labels.
const (
	CollectionCampaigns = "campaigns"
	CollectionContents  = "contents"
	CollectionSocial    = "socialmedias"
)

// ContentFilter narrows a content fetch. Zero fields do not filter.
// Date filtering is left to the reports so that undated records can be
// counted as excluded.
type ContentFilter struct {
	CampaignID string
	Status     model.ContentStatus
}

// Match reports whether c passes the filter.
func (f ContentFilter) Match(c model.Content) bool {
	if f.CampaignID != "" && c.CampaignID != f.CampaignID {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	return true
}

// Store provides read access to the analytics records.
// Returned slices are snapshots; callers must not modify them.
type Store interface {
	// Campaigns returns every campaign with its performance history.
	Campaigns(ctx context.Context) ([]model.Campaign, error)

	// Campaign returns one campaign.
	// Returns ErrNotFound if the id is unknown.
	Campaign(ctx context.Context, id string) (model.Campaign, error)

	// Contents returns the content items matching f, with CampaignName set.
	Contents(ctx context.Context, f ContentFilter) ([]model.Content, error)

	// SocialAccounts returns every social media account.
	SocialAccounts(ctx context.Context) ([]model.SocialAccount, error)

	// Close releases the underlying resources.
	Close() error
}

// Dataset is a full snapshot of the records, as stored in a fixture file.
type Dataset struct {
	Campaigns      []model.Campaign      `json:"campaigns"`
	Contents       []model.Content       `json:"contents"`
	SocialAccounts []model.SocialAccount `json:"socialAccounts"`
}
