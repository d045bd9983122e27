package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/praxis-api/internal/config"
	"github.com/noah-isme/praxis-api/internal/utils"
)

// HealthCheck reports service liveness.
func HealthCheck(cfg config.Config) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "ok", fiber.Map{
			"app":     cfg.AppName,
			"env":     cfg.AppEnv,
			"uptime":  time.Since(startedAt).Round(time.Second).String(),
			"checked": time.Now().UTC(),
		})
	}
}
