package dto

type Filter struct {
	Limit   int    `query:"limit"`
	Page    int    `query:"page"`
	Q       string `query:"q"`
	Status  string `query:"status"`
	Expired bool
}

type Pagination struct {
	Records      interface{} `json:"records"`
	TotalRecords int64       `json:"total_records,omitempty"`
	Page         int         `json:"page,omitempty"`
	Limit        int         `json:"limit,omitempty"`
}
