package dto

// ── Envelopes ──

// DataResponse single resource envelope: {data}
type DataResponse struct {
	Data interface{} `json:"data"`
}

// PageResponse collection envelope: {data, total, page, limit, totalPages}
type PageResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

// ErrorResponse error envelope: {error, message, details?}
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// TotalPages ceil(total/limit); zero when limit is not positive.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total / int64(limit))
	if total%int64(limit) > 0 {
		pages++
	}
	return pages
}
