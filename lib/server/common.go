package server

type Filters struct {
	FilterRepo string `form:"repo"`
}

type ListParams struct {
	GridParams
	Filters
}

type SectionsParams struct {
	Filters
	Offset *int `form:"offset"`
	Limit  *int `form:"limit"`
}
