package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hr-validator/internal/services"
)

type ProfileHandler struct {
	profiles *services.ProfileRegistry
}

func NewProfileHandler(profiles *services.ProfileRegistry) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// HandleListProfiles handles GET /profiles
func (h *ProfileHandler) HandleListProfiles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"default":  h.profiles.DefaultVersion(),
		"profiles": h.profiles.Summaries(),
	})
}
