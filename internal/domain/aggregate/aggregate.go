// Package aggregate reduces performance samples into grouped totals,
// averages and derived rates.
package aggregate

import (
	"github.com/okian/mawsim/internal/domain/model"
	"github.com/okian/mawsim/internal/domain/types"
)

// Field names one metric of a sample.
type Field int

// Metric fields.
const (
	Impressions Field = iota
	Clicks
	Conversions
	Engagement
	ROI
	numFields
)

// Fields lists every metric field in canonical order.
var Fields = []Field{Impressions, Clicks, Conversions, Engagement, ROI}

var fieldNames = [numFields]string{"impressions", "clicks", "conversions", "engagement", "roi"}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "unknown"
	}
	return fieldNames[f]
}

func (f Field) value(m model.Metrics) types.NullFloat {
	switch f {
	case Impressions:
		return m.Impressions
	case Clicks:
		return m.Clicks
	case Conversions:
		return m.Conversions
	case Engagement:
		return m.Engagement
	case ROI:
		return m.ROI
	}
	return types.NullFloat{}
}

// KeyFunc maps a sample to its group. Returning false excludes the sample.
type KeyFunc func(model.Sample) (string, bool)

// Bucket accumulates the samples of one group.
type Bucket struct {
	Key   string
	Count int

	totals   [numFields]float64
	measured [numFields]int
}

// Total returns the sum of f over the bucket; missing values add nothing.
func (b *Bucket) Total(f Field) float64 { return b.totals[f] }

// Measured returns how many samples carried a value for f.
func (b *Bucket) Measured(f Field) int { return b.measured[f] }

// Average returns the mean of f over the samples that measured it.
func (b *Bucket) Average(f Field) float64 {
	return ratio(b.totals[f], float64(b.measured[f]))
}

func (b *Bucket) add(s model.Sample, fields []Field) {
	b.Count++
	for _, f := range fields {
		v := f.value(s.Metrics)
		if !v.Valid {
			continue
		}
		b.totals[f] += v.Float64
		b.measured[f]++
	}
}

// Merge folds buckets into a new bucket under key.
func Merge(key string, buckets ...*Bucket) *Bucket {
	out := &Bucket{Key: key}
	for _, b := range buckets {
		if b == nil {
			continue
		}
		out.Count += b.Count
		for f := range numFields {
			out.totals[f] += b.totals[f]
			out.measured[f] += b.measured[f]
		}
	}
	return out
}

// Grouping is the result of one aggregation pass.
type Grouping struct {
	// Buckets in first-seen order, or domain order for fixed groupings.
	Buckets []*Bucket
	// Excluded counts samples rejected by the key function or the domain.
	Excluded int

	index map[string]*Bucket
}

// Get returns the bucket for key.
func (g *Grouping) Get(key string) (*Bucket, bool) {
	b, ok := g.index[key]
	return b, ok
}

// Accepted returns the number of samples placed in some bucket.
func (g *Grouping) Accepted() int {
	n := 0
	for _, b := range g.Buckets {
		n += b.Count
	}
	return n
}

func newGrouping(capacity int) *Grouping {
	return &Grouping{
		Buckets: make([]*Bucket, 0, capacity),
		index:   make(map[string]*Bucket, capacity),
	}
}

func (g *Grouping) bucket(key string) *Bucket {
	if b, ok := g.index[key]; ok {
		return b
	}
	b := &Bucket{Key: key}
	g.index[key] = b
	g.Buckets = append(g.Buckets, b)
	return b
}

// Aggregate groups samples by key over an open key space. With no fields
// given every metric field is folded.
func Aggregate(samples []model.Sample, key KeyFunc, fields ...Field) *Grouping {
	if len(fields) == 0 {
		fields = Fields
	}
	g := newGrouping(0)
	for _, s := range samples {
		k, ok := key(s)
		if !ok {
			g.Excluded++
			continue
		}
		g.bucket(k).add(s, fields)
	}
	return g
}

// AggregateFixed groups samples into the given domain. Every domain key
// is present in the result, even when empty; keys outside the domain are
// excluded.
func AggregateFixed(samples []model.Sample, domain []string, key KeyFunc, fields ...Field) *Grouping {
	if len(fields) == 0 {
		fields = Fields
	}
	g := newGrouping(len(domain))
	for _, k := range domain {
		g.bucket(k)
	}
	for _, s := range samples {
		k, ok := key(s)
		if !ok {
			g.Excluded++
			continue
		}
		b, ok := g.index[k]
		if !ok {
			g.Excluded++
			continue
		}
		b.add(s, fields)
	}
	return g
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
