package gallery

import "fmt"

// pageWindow is how many page numbers a pagination bar shows at most.
const pageWindow = 5

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	TotalPages int   `json:"totalPages"`
	Prev       int   `json:"prev,omitempty"`
	Next       int   `json:"next,omitempty"`
	Pages      []int `json:"pages"`
}

func (p Pagination) HasPrev() bool { return p.Prev > 0 }
func (p Pagination) HasNext() bool { return p.Next > 0 }

// Paginate builds the navigation for a result page. When the API reports no
// page count, a full page is taken to mean another one may follow.
func Paginate(page, perPage, totalPages, itemCount int) Pagination {
	if page < 1 {
		page = 1
	}
	p := Pagination{Page: page, PerPage: perPage, TotalPages: totalPages}
	if page > 1 {
		p.Prev = page - 1
	}

	last := totalPages
	switch {
	case totalPages > 0 && page < totalPages:
		p.Next = page + 1
	case totalPages == 0 && perPage > 0 && itemCount == perPage:
		p.Next = page + 1
		last = page + 1
	}
	if last < page {
		last = page
	}

	first := page - pageWindow/2
	if first+pageWindow-1 > last {
		first = last - pageWindow + 1
	}
	if first < 1 {
		first = 1
	}
	for n := first; n <= last && len(p.Pages) < pageWindow; n++ {
		p.Pages = append(p.Pages, n)
	}
	return p
}

func (p Pagination) String() string {
	if p.TotalPages > 0 {
		return fmt.Sprintf("page %d of %d %v", p.Page, p.TotalPages, p.Pages)
	}
	return fmt.Sprintf("page %d %v", p.Page, p.Pages)
}
