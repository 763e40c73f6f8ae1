package server

import (
	"askme/internal/featureflags"

	"github.com/gofiber/fiber/v2"
)

type featureFlagsResponse struct {
	Configured map[string]string `json:"configured"`
	Evaluated  map[string]bool   `json:"evaluated"`
	TagPage    string            `json:"tag_page"`
}

// GetFeatureFlags handles GET /api/admin/feature-flags (staff only)
// @Summary Show feature flags
// @Description Configured values, their evaluation for the caller and the active tag page mode.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} featureFlagsResponse
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := currentUserID(c)
	mode := "union"
	if s.featureFlags.Enabled(featureflags.TagFirstMatchOnly, userID) {
		mode = "first_match_only"
	}
	return c.JSON(featureFlagsResponse{
		Configured: s.featureFlags.Raw(),
		Evaluated:  s.featureFlags.Snapshot(userID),
		TagPage:    mode,
	})
}
