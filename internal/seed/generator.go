package seed

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/mawsim/internal/adapters/repository"
	"github.com/okian/mawsim/internal/domain/calendar"
	"github.com/okian/mawsim/internal/domain/model"
	"github.com/okian/mawsim/internal/domain/types"
)

// Constants for metric generation ranges.
const (
	impressionsMin   = 500.0
	impressionsRange = 4500.0
	ctrMin           = 0.01
	ctrRange         = 0.03
	engagementMin    = 0.02
	engagementRange  = 0.05
	conversionMin    = 0.02
	conversionRange  = 0.08
	roiMin           = -20.0
	roiRange         = 120.0
	followersMin     = 1000.0
	followersRange   = 199000.0
	createdMonths    = 9
)

var campaignThemes = []string{
	"Ramadan Kareem Offers",
	"Eid Greetings",
	"White Friday Deals",
	"National Day",
	"Summer Escape",
	"Back to School",
	"Founding Day",
	"Hajj Season Travel",
	"Winter Festival",
	"Brand Awareness",
}

type weighted[T any] struct {
	value  T
	weight int
}

var (
	contentStatuses = []weighted[model.ContentStatus]{
		{model.ContentPublished, 70},
		{model.ContentScheduled, 10},
		{model.ContentDraft, 15},
		{model.ContentArchived, 5},
	}
	campaignStatuses = []weighted[model.CampaignStatus]{
		{model.CampaignActive, 45},
		{model.CampaignCompleted, 30},
		{model.CampaignPaused, 10},
		{model.CampaignDraft, 15},
	}
)

// generator draws every value from one seeded source, so output depends
// only on the configuration.
type generator struct {
	cfg   Config
	rng   *rand.Rand
	table *calendar.Table
}

// Generate builds a synthetic dataset for cfg.Year. Content published inside
// a period of table, or on the focus day, performs better by the configured
// lifts.
func Generate(cfg Config, table *calendar.Table) (repository.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return repository.Dataset{}, err
	}
	if table == nil {
		var err error
		if table, err = calendar.Default(); err != nil {
			return repository.Dataset{}, err
		}
	}
	g := &generator{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // reproducible fixtures, not secrets
		table: table,
	}

	ds := repository.Dataset{
		Campaigns:      make([]model.Campaign, 0, cfg.Campaigns),
		Contents:       make([]model.Content, 0, cfg.Campaigns*cfg.ContentPerCampaign),
		SocialAccounts: make([]model.SocialAccount, 0, cfg.Campaigns*cfg.AccountsPerCampaign),
	}
	for i := 0; i < cfg.Campaigns; i++ {
		c, err := g.campaign(i)
		if err != nil {
			return repository.Dataset{}, err
		}
		ds.Campaigns = append(ds.Campaigns, c)

		for j := 0; j < cfg.ContentPerCampaign; j++ {
			item, err := g.content(c, j)
			if err != nil {
				return repository.Dataset{}, err
			}
			ds.Contents = append(ds.Contents, item)
		}
		for j := 0; j < cfg.AccountsPerCampaign; j++ {
			acc, err := g.account(c)
			if err != nil {
				return repository.Dataset{}, err
			}
			ds.SocialAccounts = append(ds.SocialAccounts, acc)
		}
	}
	return ds, nil
}

func (g *generator) id() (string, error) {
	u, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return u.String(), nil
}

func (g *generator) campaign(i int) (model.Campaign, error) {
	id, err := g.id()
	if err != nil {
		return model.Campaign{}, err
	}
	name := fmt.Sprintf("%s %d", campaignThemes[i%len(campaignThemes)], g.cfg.Year)
	if n := i / len(campaignThemes); n > 0 {
		name = fmt.Sprintf("%s #%d", name, n+1)
	}

	created := types.NewDate(g.cfg.Year, time.January, 1).AddDays(g.rng.Intn(createdMonths * 30))
	c := model.Campaign{
		ID:        id,
		Name:      name,
		Status:    pick(g.rng, campaignStatuses),
		CreatedAt: created.Time().Add(time.Duration(g.rng.Intn(24*60)) * time.Minute),
	}
	if c.Status == model.CampaignDraft {
		return c, nil
	}
	for d := 0; d < g.cfg.PerformanceDays; d++ {
		day := created.AddDays(d)
		if day.Year() != g.cfg.Year {
			break
		}
		c.Performance = append(c.Performance, model.PerformanceEntry{Date: day, Metrics: g.metrics(day)})
	}
	return c, nil
}

func (g *generator) content(c model.Campaign, j int) (model.Content, error) {
	id, err := g.id()
	if err != nil {
		return model.Content{}, err
	}
	item := model.Content{
		ID:         id,
		CampaignID: c.ID,
		Type:       model.ContentTypes[g.rng.Intn(len(model.ContentTypes))],
		Channel:    model.Channels[g.rng.Intn(len(model.Channels))],
		Status:     pick(g.rng, contentStatuses),
	}
	item.Title = fmt.Sprintf("%s: %s %d", c.Name, strings.ReplaceAll(string(item.Type), "-", " "), j+1)
	if item.Status != model.ContentPublished {
		return item, nil
	}

	day := g.dayOfYear()
	item.Performance = g.metrics(day)
	if g.rng.Float64() >= g.cfg.UndatedRate {
		item.PublishedDate = day
	}
	return item, nil
}

func (g *generator) account(c model.Campaign) (model.SocialAccount, error) {
	id, err := g.id()
	if err != nil {
		return model.SocialAccount{}, err
	}
	platform := model.Platforms[g.rng.Intn(len(model.Platforms))]
	handle := strings.ToLower(strings.Join(strings.Fields(c.Name), "_"))
	return model.SocialAccount{
		ID:          id,
		CampaignID:  c.ID,
		Platform:    platform,
		AccountName: "@" + handle + "_" + string(platform),
		Followers:   math.Round(followersMin + g.rng.Float64()*followersRange),
	}, nil
}

func (g *generator) dayOfYear() types.Date {
	first := types.NewDate(g.cfg.Year, time.January, 1)
	days := types.NewDate(g.cfg.Year+1, time.January, 1).Time().Sub(first.Time()).Hours() / 24
	return first.AddDays(g.rng.Intn(int(days)))
}

// metrics draws the counters of a record dated day.
func (g *generator) metrics(day types.Date) model.Metrics {
	lift := 1.0
	if _, ok := g.table.Classify(day); ok {
		lift *= g.cfg.PeriodLift
	}
	if day.Weekday() == g.cfg.FocusDay {
		lift *= g.cfg.FocusLift
	}

	impressions := math.Round(impressionsMin + g.rng.Float64()*impressionsRange)
	clicks := math.Round(impressions * (ctrMin + g.rng.Float64()*ctrRange) * lift)
	engagement := math.Round(impressions * (engagementMin + g.rng.Float64()*engagementRange) * lift)
	conversions := math.Round(clicks * (conversionMin + g.rng.Float64()*conversionRange))
	roi := math.Round((roiMin+g.rng.Float64()*roiRange)*100) / 100

	return model.Metrics{
		Impressions: g.maybe(impressions),
		Clicks:      g.maybe(clicks),
		Conversions: g.maybe(conversions),
		Engagement:  g.maybe(engagement),
		ROI:         g.maybe(roi),
	}
}

// maybe leaves v unrecorded at the configured rate.
func (g *generator) maybe(v float64) types.NullFloat {
	if g.rng.Float64() < g.cfg.MissingMetricRate {
		return types.NullFloat{}
	}
	return types.Float(v)
}

func pick[T any](rng *rand.Rand, choices []weighted[T]) T {
	total := 0
	for _, c := range choices {
		total += c.weight
	}
	n := rng.Intn(total)
	for _, c := range choices {
		if n < c.weight {
			return c.value
		}
		n -= c.weight
	}
	return choices[len(choices)-1].value
}
