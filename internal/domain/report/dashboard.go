// Package report composes the aggregator, the comparative analyzer and the
// calendar into the reports served to the dashboard.
//
// Every function here is a pure computation over its arguments. The current
// date is passed in where a report needs one.
package report

import (
	"slices"
	"strings"
	"time"

	"github.com/okian/mawsim/internal/domain/model"
)

// RecentCampaigns is how many campaigns the dashboard lists.
const RecentCampaigns = 5

// Count is one entry of a distribution.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// CampaignDigest is a recent campaign with its raw performance history.
type CampaignDigest struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Status      model.CampaignStatus     `json:"status"`
	CreatedAt   time.Time                `json:"createdAt"`
	Performance []model.PerformanceEntry `json:"performance"`
}

// CampaignStats summarizes campaigns.
type CampaignStats struct {
	Total    int              `json:"total"`
	Active   int              `json:"active"`
	ByStatus []Count          `json:"byStatus"`
	Recent   []CampaignDigest `json:"recentPerformance"`
}

// ContentStats summarizes content items.
type ContentStats struct {
	Total     int     `json:"total"`
	ByType    []Count `json:"byType"`
	ByChannel []Count `json:"byChannel"`
	ByStatus  []Count `json:"byStatus"`
	Scheduled int     `json:"scheduled"`
	Published int     `json:"published"`
}

// SocialStats summarizes social media accounts.
type SocialStats struct {
	Platforms      []Count `json:"platforms"`
	TotalFollowers float64 `json:"totalFollowers"`
	TotalAccounts  int     `json:"totalAccounts"`
}

// DashboardReport is the global overview.
type DashboardReport struct {
	Campaigns   CampaignStats `json:"campaigns"`
	Content     ContentStats  `json:"content"`
	SocialMedia SocialStats   `json:"socialMedia"`
}

// Dashboard counts campaigns, content and social accounts.
func Dashboard(campaigns []model.Campaign, contents []model.Content, accounts []model.SocialAccount) DashboardReport {
	var r DashboardReport

	statuses := newCounter()
	for _, c := range campaigns {
		statuses.add(string(c.Status))
		if c.Status == model.CampaignActive {
			r.Campaigns.Active++
		}
	}
	r.Campaigns.Total = len(campaigns)
	r.Campaigns.ByStatus = statuses.list()
	r.Campaigns.Recent = recent(campaigns, RecentCampaigns)

	kinds, channels, cstatus := newCounter(), newCounter(), newCounter()
	for _, c := range contents {
		kinds.add(string(c.Type))
		channels.add(string(c.Channel))
		cstatus.add(string(c.Status))
		switch c.Status {
		case model.ContentScheduled:
			r.Content.Scheduled++
		case model.ContentPublished:
			r.Content.Published++
		}
	}
	r.Content.Total = len(contents)
	r.Content.ByType = kinds.list()
	r.Content.ByChannel = channels.list()
	r.Content.ByStatus = cstatus.list()

	platforms := newCounter()
	for _, a := range accounts {
		platforms.add(string(a.Platform))
		r.SocialMedia.TotalFollowers += a.Followers
	}
	r.SocialMedia.TotalAccounts = len(accounts)
	r.SocialMedia.Platforms = platforms.list()
	return r
}

func recent(campaigns []model.Campaign, n int) []CampaignDigest {
	sorted := slices.Clone(campaigns)
	slices.SortStableFunc(sorted, func(a, b model.Campaign) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]CampaignDigest, len(sorted))
	for i, c := range sorted {
		out[i] = CampaignDigest{
			ID:          c.ID,
			Name:        c.Name,
			Status:      c.Status,
			CreatedAt:   c.CreatedAt,
			Performance: c.Performance,
		}
	}
	return out
}

type counter map[string]int

func newCounter() counter { return counter{} }

func (c counter) add(key string) { c[key]++ }

// list returns the counts sorted by key.
func (c counter) list() []Count {
	out := make([]Count, 0, len(c))
	for k, n := range c {
		out = append(out, Count{Key: k, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int { return strings.Compare(a.Key, b.Key) })
	return out
}
