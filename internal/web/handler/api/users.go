package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/visonai/visonai-gateway/internal/visonai"
)

const (
	defaultPerPage = -1
	defaultPage    = 1
)

type userEntry struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type usersResponse struct {
	Users []userEntry `json:"users"`
	Total int64       `json:"total"`
	Pages int64       `json:"pages"`
}

// ListUsers handles GET /users?per_page&page.
func (s *Service) ListUsers(c *fiber.Ctx) error {
	perPage := queryInt(c, "per_page", defaultPerPage)
	page := queryInt(c, "page", defaultPage)

	records, total, err := s.users.List(c.UserContext(), perPage, page)
	if err != nil {
		log.Error().Err(err).Msg("user listing failed")

		return SendError(c, visonai.ErrNoUsers)
	}

	if len(records) == 0 {
		return SendError(c, visonai.ErrNoUsers)
	}

	out := usersResponse{
		Users: make([]userEntry, 0, len(records)),
		Total: total,
		Pages: pageCount(total, perPage),
	}

	for _, r := range records {
		out.Users = append(out.Users, userEntry{
			ID:       r.ID,
			Username: r.Username,
			Email:    r.Email,
			Name:     r.DisplayName,
			Role:     strings.Join(r.Roles, ", "),
		})
	}

	return c.JSON(out)
}

// pageCount is ceil(total/perPage); a perPage of zero or less is one page.
func pageCount(total int64, perPage int) int64 {
	if total == 0 {
		return 0
	}

	if perPage <= 0 {
		return 1
	}

	pp := int64(perPage)

	return (total + pp - 1) / pp
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}

	return n
}
