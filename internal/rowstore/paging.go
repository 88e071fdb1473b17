package rowstore

// Pagination converts a 1-based page into offset/limit.
// Non-positive page or pageSize fall back to the defaults.
func Pagination(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return (page - 1) * pageSize, pageSize
}

// Window applies offset/limit to an already filtered and sorted slice.
func Window(rows []Row, offset, limit int) []Row {
	if offset >= len(rows) {
		return []Row{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}
