package aggregate

import (
	"time"

	"github.com/okian/mawsim/internal/domain/model"
)

// Unknown is the key used for samples without a type or channel.
const Unknown = "unknown"

// WeekdayDomain is the fixed Sunday-first key set used by ByWeekday.
var WeekdayDomain = func() []string {
	out := make([]string, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		out[d] = d.String()
	}
	return out
}()

// ByDate keys samples by YYYY-MM-DD and excludes undated ones.
func ByDate(s model.Sample) (string, bool) {
	if s.Date.IsZero() {
		return "", false
	}
	return s.Date.String(), true
}

// ByWeekday keys samples by weekday name and excludes undated ones.
func ByWeekday(s model.Sample) (string, bool) {
	if s.Date.IsZero() {
		return "", false
	}
	return s.Date.Weekday().String(), true
}

// ByContentType keys samples by content type.
func ByContentType(s model.Sample) (string, bool) {
	return orUnknown(string(s.ContentType)), true
}

// ByChannel keys samples by channel.
func ByChannel(s model.Sample) (string, bool) {
	return orUnknown(string(s.Channel)), true
}

// All places every sample in a single bucket named key.
func All(key string) KeyFunc {
	return func(model.Sample) (string, bool) { return key, true }
}

// Dated wraps key so that undated samples are excluded.
func Dated(key KeyFunc) KeyFunc {
	return func(s model.Sample) (string, bool) {
		if s.Date.IsZero() {
			return "", false
		}
		return key(s)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
