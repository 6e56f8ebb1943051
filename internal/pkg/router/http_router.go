package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nlzhang/homepage/internal/pkg/constants"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// The homepage itself is prebuilt static content; everything
	// dynamic lives under /api.
	app.Static(constants.PublicRoute, "./public", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
