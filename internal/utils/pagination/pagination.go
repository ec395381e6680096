package pagination

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// MaxLimit caps the page size a client can request.
const MaxLimit = 100

// MaxPage keeps Offset within a 32-bit int at any allowed limit.
const MaxPage = math.MaxInt32 / MaxLimit

// Params is a 1-based page request.
type Params struct {
	Page  int
	Limit int
}

// New normalizes page and limit. Non-positive values fall back to page 1
// and defaultLimit; page is capped at MaxPage.
func New(page, limit, defaultLimit int) Params {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Info is the pagination block returned alongside a page of results.
type Info struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Info reports total and the number of pages needed to hold it.
func (p Params) Info(total int64) Info {
	pages := 0
	if p.Limit > 0 {
		pages = int(total / int64(p.Limit))
		if total%int64(p.Limit) > 0 {
			pages++
		}
	}
	return Info{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}

// ParseFromRequest handles pagination parameters from Fiber context
func ParseFromRequest(c *fiber.Ctx, defaultLimit int) Params {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	return New(page, limit, defaultLimit)
}
