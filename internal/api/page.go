package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the normalized paginated list shape. Some backend endpoints return
// this form directly, others return a bare array; the service layer always
// exposes this form to callers.
type Page[T any] struct {
	Content       []T  `json:"content"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Size          int  `json:"size"`
	Number        int  `json:"number"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
	Empty         bool `json:"empty"`
}

// PageMeta is the pagination envelope of a page-form response, kept when only
// the content needs to be replaced (validated, transformed).
type PageMeta struct {
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Size          int  `json:"size"`
	Number        int  `json:"number"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
	Empty         bool `json:"empty"`
}

// ListResponse holds a decoded list endpoint response. Meta is nil when the
// endpoint returned a bare array.
type ListResponse[T any] struct {
	Items []T
	Meta  *PageMeta
}

// DecodeList accepts either a bare JSON array or a page object and returns the
// items plus the page envelope when one was present.
func DecodeList[T any](raw json.RawMessage) (ListResponse[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ListResponse[T]{}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return ListResponse[T]{}, fmt.Errorf("failed to decode list: %w", err)
		}
		return ListResponse[T]{Items: items}, nil
	}

	var page struct {
		Content []T `json:"content"`
		PageMeta
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return ListResponse[T]{}, fmt.Errorf("failed to decode page: %w", err)
	}
	meta := page.PageMeta
	return ListResponse[T]{Items: page.Content, Meta: &meta}, nil
}

// BuildPage slices a full result set into page form client-side. Used when the
// backend returned a bare array.
func BuildPage[T any](items []T, number, size int) Page[T] {
	if size <= 0 {
		size = 10
	}
	if number < 0 {
		number = 0
	}

	total := len(items)
	totalPages := (total + size - 1) / size

	start := number * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Content:       items[start:end],
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          size,
		Number:        number,
		First:         number == 0,
		Last:          number >= totalPages-1,
		Empty:         total == 0,
	}
}

// PageWithMeta rebuilds a page from server-provided pagination metadata and
// already-processed content.
func PageWithMeta[T any](items []T, meta PageMeta) Page[T] {
	return Page[T]{
		Content:       items,
		TotalElements: meta.TotalElements,
		TotalPages:    meta.TotalPages,
		Size:          meta.Size,
		Number:        meta.Number,
		First:         meta.First,
		Last:          meta.Last,
		Empty:         meta.Empty,
	}
}
