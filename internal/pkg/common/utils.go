package common

import (
	"strconv"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// ClampPage turns a raw page query value into a 1-based page number.
func ClampPage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Page describes one slice of a paginated listing.
type Page struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// NewPage computes pagination flags.
func NewPage(page, perPage, total int) Page {
	return Page{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		HasNext: page*perPage < total,
		HasPrev: page > 1,
	}
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}
