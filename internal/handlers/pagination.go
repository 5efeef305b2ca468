package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/miwaszko990/ugc-travel-connect/internal/models"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

func parsePagination(c *fiber.Ctx) (page, limit, offset int) {
	page = parsePositiveInt(c.Query("page"), 1)
	limit = parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset = (page - 1) * limit
	return page, limit, offset
}

func buildPaginationMeta(page, limit, total int) models.PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
