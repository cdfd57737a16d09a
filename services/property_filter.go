package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/repository"
)

// FilterQuery is the raw query string of GET /property/filter.
type FilterQuery struct {
	City         string `form:"city"`
	Address      string `form:"address"`
	PropertyType string `form:"propertyType"`
	Type         string `form:"type"`
	Bedrooms     string `form:"bedrooms"`
	Price        string `form:"price"`
	Area         string `form:"area"`
}

// BuildPropertyFilter never fails: tokens that do not parse are left out.
func BuildPropertyFilter(q FilterQuery) repository.PropertyFilter {
	f := repository.PropertyFilter{
		City:         strings.TrimSpace(q.City),
		Address:      strings.TrimSpace(q.Address),
		PropertyType: strings.TrimSpace(q.PropertyType),
		Type:         models.ListingType(strings.TrimSpace(q.Type)),
		Price:        ParseRange(q.Price),
		Area:         ParseRange(q.Area),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(q.Bedrooms)); err == nil {
		f.Bedrooms = &n
	}
	return f
}

// ParseRange reads "min-max". Either side may be empty or garbage and is
// then dropped on its own; a value without a dash yields an empty range.
func ParseRange(s string) repository.Range {
	lo, hi, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return repository.Range{}
	}
	return repository.Range{Min: parseBound(lo), Max: parseBound(hi)}
}

func parseBound(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// SearchQuery is the raw query string of GET /property.
type SearchQuery struct {
	Q        string   `form:"q"`
	MinPrice *float64 `form:"minPrice"`
	MaxPrice *float64 `form:"maxPrice"`
	MinArea  *float64 `form:"minArea"`
	MaxArea  *float64 `form:"maxArea"`
	Type     string   `form:"type" binding:"omitempty,oneof=sale rent"`
	Page     int      `form:"page"`
	Limit    int      `form:"limit"`
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func normalizePage(page, limit int) repository.Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return repository.Page{Page: page, Limit: limit}
}
