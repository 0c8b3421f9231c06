package transform

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/artisania/storefront/internal/api"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$45.50", FormatPrice(decimal.RequireFromString("45.5")))
	assert.Equal(t, "$0.00", FormatPrice(decimal.Zero))
	assert.Equal(t, "$1200.00", FormatPrice(decimal.RequireFromString("1200")))
}

func TestParsePrice(t *testing.T) {
	assert.True(t, ParsePrice("$45.50").Equal(decimal.RequireFromString("45.50")))
	assert.True(t, ParsePrice("USD 12.30").Equal(decimal.RequireFromString("12.30")))
	assert.True(t, ParsePrice("free").Equal(decimal.Zero))
}

func TestResolveImageURL(t *testing.T) {
	assert.Equal(t, "/fallback.jpg", ResolveImageURL("", "/fallback.jpg", ""))
	assert.Equal(t, "/fallback.jpg", ResolveImageURL(Placeholder, "/fallback.jpg", ""))
	assert.Equal(t, "https://cdn/x.jpg", ResolveImageURL("https://cdn/x.jpg", "/fallback.jpg", "http://base"))
	assert.Equal(t, "http://base/img/x.jpg", ResolveImageURL("img/x.jpg", "/fallback.jpg", "http://base/"))
}

func TestIsPlaceholderImage(t *testing.T) {
	assert.True(t, IsPlaceholderImage(Placeholder))
	assert.True(t, IsPlaceholderImage("/api/placeholder/product-image.jpg"))
	assert.False(t, IsPlaceholderImage("https://cdn/x.jpg"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "June 11, 2025", FormatDate("2025-06-11T03:42:23Z"))
	assert.Equal(t, "June 11, 2025", FormatDate("2025-06-11T03:42:23"))
	assert.Equal(t, "not a date", FormatDate("not a date"))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Just now", RelativeTime("2025-06-11T11:59:30Z", now))
	assert.Equal(t, "5 minutes ago", RelativeTime("2025-06-11T11:55:00Z", now))
	assert.Equal(t, "1 hour ago", RelativeTime("2025-06-11T10:30:00Z", now))
	assert.Equal(t, "2 days ago", RelativeTime("2025-06-09T12:00:00Z", now))
	assert.Equal(t, "June 1, 2025", RelativeTime("2025-06-01T12:00:00Z", now))
}

func TestErrorMessagePrecedence(t *testing.T) {
	withBody := &api.Error{Kind: api.KindValidation, Status: 400, ServerMessage: "Stock is insufficient"}
	assert.Equal(t, "Stock is insufficient", ErrorMessage(withBody))

	notFound := &api.Error{Kind: api.KindNotFound, Status: 404}
	assert.Equal(t, api.MsgNotFound, ErrorMessage(notFound))

	timeout := &api.Error{Kind: api.KindTimeout}
	assert.Equal(t, api.MsgTimeout, ErrorMessage(timeout))

	assert.Equal(t, "quantity must be positive", ErrorMessage(errors.New("quantity must be positive")))
	assert.Empty(t, ErrorMessage(nil))
}
