package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetClientIdentity determines the caller identity used for visit
// deduplication. Headers are probed in trust order: the proxy-injected
// CF-Connecting-IP first, then X-Forwarded-For (first entry is the
// original client), then X-Real-IP, then the connection address.
// Identity is never read from the request body, so callers cannot
// forge someone else's dedup slot.
func GetClientIdentity(c *fiber.Ctx) string {
	if cfIP := strings.TrimSpace(c.Get("CF-Connecting-IP")); cfIP != "" {
		return cfIP
	}

	if xff := c.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain a list of IPs - the first one is
		// the original client IP
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(c.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	if ip := c.IP(); ip != "" {
		return ip
	}

	return "unknown"
}
