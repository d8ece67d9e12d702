// Package model contains domain records passed between layers.
// Records are read-only once loaded; the analytics packages never mutate them.
package model

import (
	"time"

	"github.com/okian/mawsim/internal/domain/types"
)

// Metrics holds the raw performance counters of a record.
// Every field is optional: absent is not the same as zero.
type Metrics struct {
	Impressions types.NullFloat `json:"impressions"`
	Clicks      types.NullFloat `json:"clicks"`
	Conversions types.NullFloat `json:"conversions"`
	Engagement  types.NullFloat `json:"engagement"`
	ROI         types.NullFloat `json:"roi"` // may be negative
}

// Sample is one dated observation fed to the aggregator.
type Sample struct {
	ID          string
	Date        types.Date // zero when the record carries no date
	Metrics     Metrics
	ContentType ContentType
	Channel     Channel
}

// Content is a published (or not yet published) piece of campaign content.
type Content struct {
	ID            string        `json:"id"`
	CampaignID    string        `json:"campaignId"`
	CampaignName  string        `json:"campaignName,omitempty"`
	Title         string        `json:"title"`
	Type          ContentType   `json:"type"`
	Channel       Channel       `json:"channel"`
	Status        ContentStatus `json:"status"`
	PublishedDate types.Date    `json:"publishedDate"`
	Performance   Metrics       `json:"performance"`
}

// Sample projects the content item onto its publication date.
func (c Content) Sample() Sample {
	return Sample{
		ID:          c.ID,
		Date:        c.PublishedDate,
		Metrics:     c.Performance,
		ContentType: c.Type,
		Channel:     c.Channel,
	}
}

// Published reports whether c takes part in time-based reports.
func (c Content) Published() bool {
	return c.Status == ContentPublished && !c.PublishedDate.IsZero()
}

// PerformanceEntry is one day of campaign-level performance.
type PerformanceEntry struct {
	Date    types.Date `json:"date"`
	Metrics Metrics    `json:"metrics"`
}

// Campaign is a marketing campaign with its daily performance history.
type Campaign struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Status      CampaignStatus     `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
	Performance []PerformanceEntry `json:"performance"`
}

// Samples returns the performance history as samples, in stored order.
func (c Campaign) Samples() []Sample {
	out := make([]Sample, len(c.Performance))
	for i, p := range c.Performance {
		out[i] = Sample{ID: c.ID, Date: p.Date, Metrics: p.Metrics}
	}
	return out
}

// SocialAccount is a social media account attached to a campaign.
type SocialAccount struct {
	ID          string   `json:"id"`
	CampaignID  string   `json:"campaignId"`
	Platform    Platform `json:"platform"`
	AccountName string   `json:"accountName"`
	Followers   float64  `json:"followers"`
}
