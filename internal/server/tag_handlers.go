package server

import (
	"net/url"

	"askme/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TopTags handles GET /api/tags/top
// @Summary Most used tags
// @Description Tags ordered by the number of distinct questions carrying them
// @Tags tags
// @Produce json
// @Param limit query int false "Number of tags (default TOP_TAGS_LIMIT, max 100)"
// @Success 200 {array} models.TagCount
// @Router /tags/top [get]
func (s *Server) TopTags(c *fiber.Ctx) error {
	limit := parseLimit(c, s.config.TopTagsLimit, maxTopTagsLimit)
	tags, err := s.questionService.TopTags(c.UserContext(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

// ListTaggedQuestions handles GET /api/tags/:name/questions
// @Summary Questions by tag
// @Tags tags
// @Produce json
// @Param name path string true "Tag name"
// @Param page query int false "1-based page number"
// @Success 200 {object} questionListResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /tags/{name}/questions [get]
func (s *Server) ListTaggedQuestions(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid tag name"))
	}
	page, err := s.questionService.ListTagged(c.UserContext(), name, parsePage(c), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return s.respondWithList(c, page)
}
