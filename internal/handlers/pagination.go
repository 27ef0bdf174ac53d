package handlers

import "strconv"

const defaultPageLimit = 20

// parsePaginationParams never fails: non-numeric or non-positive values fall
// back to page 1 / limit 20 instead of rejecting the request.
func parsePaginationParams(pageStr, limitStr string) (int64, int64) {
	page := int64(1)
	limit := int64(defaultPageLimit)

	if p, err := strconv.ParseInt(pageStr, 10, 64); err == nil && p >= 1 {
		page = p
	}
	if l, err := strconv.ParseInt(limitStr, 10, 64); err == nil && l >= 1 {
		limit = l
	}

	return page, limit
}

// totalPages is ceil(total/limit); zero matches documents -> zero pages.
func totalPages(total, limit int64) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
