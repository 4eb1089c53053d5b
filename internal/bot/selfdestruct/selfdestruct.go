// Package selfdestruct composes messages that announce their own expiry and
// recovers that expiry from message text.
package selfdestruct

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Unit is a time unit that can appear in a self-destruct notice.
type Unit string

const (
	Seconds Unit = "seconds"
	Minutes Unit = "minutes"
	Hours   Unit = "hours"
	Days    Unit = "days"
	Weeks   Unit = "weeks"
)

// Units lists every supported unit.
var Units = []Unit{Seconds, Minutes, Hours, Days, Weeks}

var multipliers = map[Unit]time.Duration{
	Seconds: time.Second,
	Minutes: 60 * time.Second,
	Hours:   60 * 60 * time.Second,
	Days:    24 * 60 * 60 * time.Second,
	Weeks:   7 * 24 * 60 * 60 * time.Second,
}

var noticePattern = regexp.MustCompile(`(?i)self-destruct in about (\d+) (seconds|minutes|hours|days|weeks)`)

// Expiry is how long a message should live.
type Expiry struct {
	Time  int
	Units Unit
}

// DefaultExpiry is used when the caller leaves the expiry unset.
var DefaultExpiry = Expiry{Time: 10, Units: Seconds}

// Duration converts the expiry to a duration.
func (e Expiry) Duration() time.Duration {
	return time.Duration(e.Time) * multipliers[e.Units]
}

func (e Expiry) withDefaults() Expiry {
	if e.Time <= 0 {
		e.Time = DefaultExpiry.Time
	}
	if _, ok := multipliers[e.Units]; !ok {
		e.Units = DefaultExpiry.Units
	}
	return e
}

// Compose appends the self-destruct notice to content.
func Compose(content string, expiry Expiry) string {
	expiry = expiry.withDefaults()
	return fmt.Sprintf("%s\n_This message will self-destruct in about %d %s_", content, expiry.Time, expiry.Units)
}

// MaxDuration is what Parse returns for a notice too long to represent.
const MaxDuration = time.Duration(math.MaxInt64)

// Parse finds a self-destruct notice in text and returns its duration.
// It returns false when no notice is present. Durations that do not fit
// in a time.Duration saturate at MaxDuration.
func Parse(text string) (time.Duration, bool) {
	match := noticePattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	multiplier := multipliers[Unit(strings.ToLower(match[2]))]

	n, err := strconv.ParseInt(match[1], 10, 64)
	if errors.Is(err, strconv.ErrRange) || n > int64(MaxDuration/multiplier) {
		return MaxDuration, true
	}
	if err != nil {
		return 0, false
	}

	return time.Duration(n) * multiplier, true
}
