package query

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	// MaxPerPage is the largest page size the photo API accepts.
	MaxPerPage = 30
)

type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
	Squarish  Orientation = "squarish"
)

var orientations = []Orientation{Landscape, Portrait, Squarish}

type Color string

const (
	BlackAndWhite Color = "black_and_white"
	Black         Color = "black"
	White         Color = "white"
	Yellow        Color = "yellow"
	Orange        Color = "orange"
	Red           Color = "red"
	Purple        Color = "purple"
	Magenta       Color = "magenta"
	Green         Color = "green"
	Teal          Color = "teal"
	Blue          Color = "blue"
)

var colors = []Color{BlackAndWhite, Black, White, Yellow, Orange, Red, Purple, Magenta, Green, Teal, Blue}

type OrderBy string

const (
	Relevant OrderBy = "relevant"
	Latest   OrderBy = "latest"
)

var orderings = []OrderBy{Relevant, Latest}

// SearchOptions holds pagination and filters for a photo search. Zero values
// mean "not set": page and per page fall back to their defaults and empty
// filters are left out of the request.
type SearchOptions struct {
	Page        int
	PerPage     int
	Orientation Orientation
	Color       Color
	OrderBy     OrderBy
}

func ParseOrientation(s string) (Orientation, error) {
	return parseEnum(s, "orientation", orientations)
}

func ParseColor(s string) (Color, error) {
	return parseEnum(s, "color", colors)
}

func ParseOrderBy(s string) (OrderBy, error) {
	return parseEnum(s, "order_by", orderings)
}

// parseEnum accepts the empty string as "unset".
func parseEnum[T ~string](s, field string, allowed []T) (T, error) {
	var unset T
	if s == "" {
		return unset, nil
	}
	for _, v := range allowed {
		if string(v) == s {
			return v, nil
		}
	}
	return unset, &ValidationError{Kind: InvalidOption, Field: field, Value: s}
}

// Normalized returns a copy with page and per page resolved to valid values.
func (o SearchOptions) Normalized() SearchOptions {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.PerPage < 1 {
		o.PerPage = DefaultPerPage
	}
	if o.PerPage > MaxPerPage {
		o.PerPage = MaxPerPage
	}
	return o
}

// BuildSearchParams assembles the outbound parameters for /search/photos.
func BuildSearchParams(q string, opts SearchOptions) url.Values {
	opts = opts.Normalized()

	v := url.Values{}
	v.Set("query", q)
	v.Set("page", strconv.Itoa(opts.Page))
	v.Set("per_page", strconv.Itoa(opts.PerPage))
	if opts.Orientation != "" {
		v.Set("orientation", string(opts.Orientation))
	}
	if opts.Color != "" {
		v.Set("color", string(opts.Color))
	}
	if opts.OrderBy != "" {
		v.Set("order_by", string(opts.OrderBy))
	}
	return v
}
