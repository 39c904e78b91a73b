package listing

// PaginationMeta describes where a result page sits in the full listing.
// Invariant: PageIndex < TotalPages whenever TotalPages > 0.
type PaginationMeta struct {
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	PageIndex  int `json:"pageIndex"`
}

// PageControls is the pure presentation model for the pagination strip. It
// holds no state; every interaction routes back through FilterState.
type PageControls struct {
	PageIndex   int   `json:"pageIndex"`
	PageCount   int   `json:"pageCount"`
	CanPrevious bool  `json:"canPreviousPage"`
	CanNext     bool  `json:"canNextPage"`
	Pages       []int `json:"pages"`
}

// controlWindow is how many numbered page buttons the strip shows at most.
const controlWindow = 5

// Controls derives the pagination strip model from result metadata.
func Controls(meta PaginationMeta) PageControls {
	c := PageControls{
		PageIndex:   meta.PageIndex,
		PageCount:   meta.TotalPages,
		CanPrevious: meta.PageIndex > 0,
		CanNext:     meta.TotalPages > 0 && meta.PageIndex < meta.TotalPages-1,
	}
	c.Pages = pageWindow(meta.PageIndex, meta.TotalPages)
	return c
}

// pageWindow returns up to controlWindow 1-based page numbers centered on the
// current page.
func pageWindow(pageIndex, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}
	start := pageIndex - controlWindow/2
	if start > totalPages-controlWindow {
		start = totalPages - controlWindow
	}
	if start < 0 {
		start = 0
	}
	end := start + controlWindow
	if end > totalPages {
		end = totalPages
	}
	pages := make([]int, 0, end-start)
	for p := start; p < end; p++ {
		pages = append(pages, p+1)
	}
	return pages
}

// PreviousPage moves back one page; a no-op on the first page.
func (s *FilterState) PreviousPage() {
	if s.PageIndex > 0 {
		s.PageIndex--
	}
}

// NextPage moves forward one page; a no-op on the last page.
func (s *FilterState) NextPage(totalPages int) {
	if totalPages > 0 && s.PageIndex < totalPages-1 {
		s.PageIndex++
	}
}
