package response

import (
	"fmt"
)

// Page is the list envelope: count plus next/previous links built from the
// request path, null at the edges.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func NewPage[T any](results []T, count int64, page, perPage int, path string) *Page[T] {
	if results == nil {
		results = []T{}
	}

	p := &Page[T]{
		Count:   count,
		Results: results,
	}

	if int64(page*perPage) < count {
		next := fmt.Sprintf("%s?page=%d&per_page=%d", path, page+1, perPage)
		p.Next = &next
	}

	if page > 1 {
		previous := fmt.Sprintf("%s?page=%d&per_page=%d", path, page-1, perPage)
		p.Previous = &previous
	}

	return p
}
