package transform

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// FormatPrice renders a price with a dollar sign and exactly two decimals.
func FormatPrice(price decimal.Decimal) string {
	return "$" + price.StringFixed(2)
}

// ParsePrice recovers the numeric value from a formatted price string.
// Unparseable input yields zero.
func ParsePrice(formatted string) decimal.Decimal {
	var b strings.Builder
	for _, r := range formatted {
		if unicode.IsDigit(r) || r == '.' {
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ResolveImageURL maps an image reference to a fetchable URL, substituting
// fallback for empty values and the placeholder sentinel.
func ResolveImageURL(imageURL, fallback, baseURL string) string {
	if imageURL == "" || imageURL == Placeholder {
		return fallback
	}
	if strings.HasPrefix(imageURL, "http") {
		return imageURL
	}
	if baseURL != "" {
		return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(imageURL, "/")
	}
	return imageURL
}

func IsPlaceholderImage(imageURL string) bool {
	return imageURL == Placeholder || strings.Contains(imageURL, "placeholder")
}

// FormatDate renders an ISO timestamp as "January 2, 2006". Input that does
// not parse is returned untouched.
func FormatDate(iso string) string {
	t, err := parseISO(iso)
	if err != nil {
		return iso
	}
	return t.Format("January 2, 2006")
}

// RelativeTime renders an ISO timestamp relative to now, falling back to
// FormatDate past a week.
func RelativeTime(iso string, now time.Time) string {
	t, err := parseISO(iso)
	if err != nil {
		return iso
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day") + " ago"
	}
	return FormatDate(iso)
}

func parseISO(iso string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err == nil {
		return t, nil
	}
	// Backend timestamps sometimes omit the zone.
	return time.Parse("2006-01-02T15:04:05", iso)
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
