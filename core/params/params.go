package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type QueryParams struct {
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	Search  string `json:"search"`
	SortBy  string `json:"sort_by"`
	SortDir string `json:"sort_dir"`
}

// NewQueryParams reads the common list parameters off the request, clamping
// page and limit into sane ranges.
func NewQueryParams(c echo.Context) QueryParams {
	p := QueryParams{
		Page:    DefaultPage,
		Limit:   DefaultLimit,
		Search:  c.QueryParam("search"),
		SortBy:  c.QueryParam("sort_by"),
		SortDir: c.QueryParam("sort_dir"),
	}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.SortDir != "asc" && p.SortDir != "desc" {
		p.SortDir = "asc"
	}
	return p
}

func (p QueryParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
