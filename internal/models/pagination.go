package models

// Pagination describes a page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// ConfigurationFilter narrows the configuration listing of one organization.
// A zero PageSize lists every configuration.
type ConfigurationFilter struct {
	Organization string `form:"-"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}
