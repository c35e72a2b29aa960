package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/visonai/visonai-gateway/internal/visonai"
)

type createRequest struct {
	Title   string `validate:"required"`
	Content string `validate:"required"`
}

type createResponse struct {
	ID      uint64 `json:"id"`
	Message string `json:"message"`
	Author  uint64 `json:"author"`
}

type postResponse struct {
	ID      uint64 `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type messageResponse struct {
	ID      uint64 `json:"id"`
	Message string `json:"message"`
}

// CreatePost handles POST /post.
func (s *Service) CreatePost(c *fiber.Ctx) error {
	params := jsonParams(c.Body())

	req := createRequest{Title: requiredParam(params["title"]), Content: requiredParam(params["content"])}
	if err := s.validate.Struct(req); err != nil {
		return SendError(c, visonai.ErrMissingFields)
	}

	author := s.cfg.API.DefaultAuthorID

	if userID := intParam(params["user_id"]); userID != 0 {
		exists := false

		if userID > 0 {
			var err error

			exists, err = s.users.Exists(c.UserContext(), uint64(userID))
			if err != nil {
				log.Error().Err(err).Int64("user_id", userID).Msg("user lookup failed")

				return SendError(c, visonai.ErrPostCreationFailed)
			}
		}

		if !exists {
			return SendError(c, visonai.ErrInvalidUser)
		}

		author = uint64(userID)
	}

	id, err := s.posts.Create(c.UserContext(), visonai.ContentItem{
		Title:    visonai.SanitizeText(req.Title),
		Content:  visonai.SanitizeTextarea(req.Content),
		AuthorID: author,
	})
	if err != nil {
		log.Error().Err(err).Msg("post creation failed")

		return SendError(c, visonai.ErrPostCreationFailed)
	}

	return c.JSON(createResponse{ID: id, Message: "Post created successfully", Author: author})
}

// GetPost handles GET /post/:id.
func (s *Service) GetPost(c *fiber.Ctx) error {
	id, ok := postID(c)
	if !ok {
		return SendError(c, visonai.ErrPostNotFound)
	}

	item, err := s.posts.Get(c.UserContext(), id)
	if err != nil {
		if !errors.Is(err, visonai.ErrNotFound) {
			log.Error().Err(err).Uint64("id", id).Msg("post lookup failed")
		}

		return SendError(c, visonai.ErrPostNotFound)
	}

	return c.JSON(postResponse{ID: item.ID, Title: item.Title, Content: item.Content})
}

// UpdatePost handles PUT /post/:id. Fields missing from the body stay unchanged.
func (s *Service) UpdatePost(c *fiber.Ctx) error {
	id, ok := postID(c)
	if !ok {
		return SendError(c, visonai.ErrPostUpdateFailed)
	}

	params := jsonParams(c.Body())

	var update visonai.ContentUpdate

	if v, present := params["title"]; present {
		title := visonai.SanitizeText(stringParam(v))
		update.Title = &title
	}

	if v, present := params["content"]; present {
		content := visonai.SanitizeTextarea(stringParam(v))
		update.Content = &content
	}

	if err := s.posts.Update(c.UserContext(), id, update); err != nil {
		if !errors.Is(err, visonai.ErrNotFound) {
			log.Error().Err(err).Uint64("id", id).Msg("post update failed")
		}

		return SendError(c, visonai.ErrPostUpdateFailed)
	}

	return c.JSON(messageResponse{ID: id, Message: "Post updated successfully"})
}

// DeletePost handles DELETE /post/:id.
func (s *Service) DeletePost(c *fiber.Ctx) error {
	id, ok := postID(c)
	if !ok {
		return SendError(c, visonai.ErrPostDeletionFailed)
	}

	if err := s.posts.Delete(c.UserContext(), id); err != nil {
		if !errors.Is(err, visonai.ErrNotFound) {
			log.Error().Err(err).Uint64("id", id).Msg("post deletion failed")
		}

		return SendError(c, visonai.ErrPostDeletionFailed)
	}

	return c.JSON(messageResponse{ID: id, Message: "Post deleted successfully"})
}

// jsonParams decodes a JSON object body. Anything else yields no params.
func jsonParams(body []byte) map[string]any {
	params := map[string]any{}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	if err := dec.Decode(&params); err != nil {
		return map[string]any{}
	}

	return params
}

// requiredParam is stringParam for a required field. Values a caller would
// not send on purpose count as missing: "", "0", numeric zero, false, null
// and empty lists or objects.
func requiredParam(v any) string {
	switch val := v.(type) {
	case string:
		if val == "0" {
			return ""
		}
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return ""
		}
	}

	return stringParam(v)
}

// stringParam returns strings as-is, numbers in their JSON form and true as "1".
func stringParam(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "1"
		}

		return ""
	default:
		return ""
	}
}

// intParam reads a number or numeric string. Fractions are truncated;
// anything else is zero.
func intParam(v any) int64 {
	var raw string

	switch val := v.(type) {
	case json.Number:
		raw = val.String()
	case string:
		raw = strings.TrimSpace(val)
	default:
		return 0
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int64(f)
	}

	return 0
}
