package models

// Pagination describes one page of a listing response.
type Pagination struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	Pages    int   `json:"pages"`
	NextPage int   `json:"next_page"`
	PrevPage int   `json:"prev_page"`
}

// NewPagination computes page metadata for a listing of total rows.
func NewPagination(page, perPage int, total int64) Pagination {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	p := Pagination{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
	}
	if page < pages {
		p.NextPage = page + 1
	}
	if page > 1 {
		p.PrevPage = page - 1
	}
	return p
}
