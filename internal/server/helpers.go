package server

import (
	"errors"

	"askme/internal/models"
	"askme/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten means a helper already wrote the response. Handlers return
// nil so the ErrorHandler does not overwrite it.
var errResponseWritten = errors.New("response already written")

const maxTopTagsLimit = 100

// parsePage reads the 1-based "page" query parameter. Anything that is not a
// positive integer means the first page.
func parsePage(c *fiber.Ctx) int {
	return service.ParsePageNumber(c.Query("page"))
}

// parseLimit reads "limit", falling back to defaultLimit and capping at max.
func parseLimit(c *fiber.Ctx, defaultLimit, max int) int {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > max {
		limit = max
	}
	return limit
}

// parseID reads the ":id" route parameter as a positive uint. On failure it
// writes a 400 naming the resource ("Invalid question ID") and returns
// errResponseWritten; callers then return nil.
func parseID(c *fiber.Ctx, resource string) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+resource+" ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated caller, or 0 for anonymous requests.
func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// respondError writes err with the status its AppError code maps to.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		err = models.NewInternalError(err)
	}
	return models.RespondWithError(c, models.StatusFor(err), err)
}
