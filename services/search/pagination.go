package search

const maxVisiblePages = 5

// Pagination describes zero-based pages. Labels shown to users are one-based.
type Pagination struct {
	CurrentPage  int        `json:"current_page"`
	PageSize     int        `json:"page_size"`
	TotalPages   int        `json:"total_pages"`
	HasNextPage  bool       `json:"has_next_page"`
	HasPrevPage  bool       `json:"has_prev_page"`
	TotalResults int        `json:"total_results"`
	Window       []PageLink `json:"window"`
}

// PageLink is one entry of the pagination bar. Gap entries are ellipses and
// carry no page.
type PageLink struct {
	Page   int  `json:"page"`
	Label  int  `json:"label"`
	Active bool `json:"active"`
	Gap    bool `json:"gap"`
}

func (p Pagination) PrevPage() int {
	return p.CurrentPage - 1
}

func (p Pagination) NextPage() int {
	return p.CurrentPage + 1
}

// Visible is false when everything fits on one page.
func (p Pagination) Visible() bool {
	return p.TotalPages > 1
}

func calculatePagination(total int, pageSize int, currentPage int) Pagination {
	totalPages := 0
	if pageSize > 0 && total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return Pagination{
		CurrentPage:  currentPage,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		HasNextPage:  currentPage < totalPages-1,
		HasPrevPage:  currentPage > 0,
		TotalResults: total,
		Window:       pageWindow(currentPage, totalPages),
	}
}

// pageWindow centres up to maxVisiblePages pages on current and adds the
// first and last page with gaps where pages are skipped.
func pageWindow(current int, totalPages int) []PageLink {
	if totalPages <= 1 {
		return nil
	}

	startPage := max(0, current-maxVisiblePages/2)
	endPage := min(totalPages-1, startPage+maxVisiblePages-1)
	if endPage-startPage+1 < maxVisiblePages {
		startPage = max(0, endPage-maxVisiblePages+1)
	}

	var links []PageLink
	if startPage > 0 {
		links = append(links, pageLink(0, current))
		if startPage > 1 {
			links = append(links, PageLink{Gap: true})
		}
	}

	for page := startPage; page <= endPage; page++ {
		links = append(links, pageLink(page, current))
	}

	if endPage < totalPages-1 {
		if endPage < totalPages-2 {
			links = append(links, PageLink{Gap: true})
		}
		links = append(links, pageLink(totalPages-1, current))
	}

	return links
}

func pageLink(page int, current int) PageLink {
	return PageLink{Page: page, Label: page + 1, Active: page == current}
}
