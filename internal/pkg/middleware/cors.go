package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// Cors returns a handler applying the public API's permissive CORS
// policy: any origin, the given methods, any header. OPTIONS requests
// short-circuit with an empty 200 - the published interface pins that
// status, which is why fiber's builtin cors middleware (204 preflight)
// is not used here.
func Cors(allowMethods string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", allowMethods)
		c.Set("Access-Control-Allow-Headers", "*")

		if c.Method() == fiber.MethodOptions {
			// Send(nil) keeps the body empty; SendStatus would write
			// the status text.
			return c.Status(fiber.StatusOK).Send(nil)
		}
		return c.Next()
	}
}
