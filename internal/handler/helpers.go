package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/praxis-api/internal/middleware"
	"github.com/noah-isme/praxis-api/internal/service"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := c.Params(key)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+key)
	}

	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string, fallback int) int {
	value := c.Query(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return parsed
}

func requestCaller(c *fiber.Ctx) (service.Caller, bool) {
	return middleware.CallerFromCtx(c)
}
