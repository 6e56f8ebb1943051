package router

import (
	"net"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/nlzhang/homepage/app/controllers"
	"github.com/nlzhang/homepage/internal/pkg/cache"
	"github.com/nlzhang/homepage/internal/pkg/checkin"
	"github.com/nlzhang/homepage/internal/pkg/constants"
	"github.com/nlzhang/homepage/internal/pkg/env"
	"github.com/nlzhang/homepage/internal/pkg/kvstore"
	"github.com/nlzhang/homepage/internal/pkg/middleware"
	"github.com/nlzhang/homepage/internal/pkg/theme"
	"github.com/nlzhang/homepage/internal/pkg/visit"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	store := newStore()

	controllers.InitializeVisitController(visit.NewService(store))
	controllers.InitializeThemeController(theme.NewService(store))
	controllers.InitializeCheckinController(checkin.NewService(store))

	api := app.Group(constants.APIRoute, limiter.New(limiter.Config{
		Storage: newLimiterStorage(),
	}))

	api.Use(constants.DailyVisitRoute, middleware.Cors("GET,POST,OPTIONS"))
	api.Use(constants.CheckinRoute, middleware.Cors("GET,POST,OPTIONS"))
	api.Use(constants.ThemeRoute, middleware.Cors("GET, POST, DELETE, OPTIONS"))

	api.Get("/", controllers.HandleApiPing)

	api.Post(constants.DailyVisitRoute, controllers.HandleDailyVisitPost)
	api.Get(constants.DailyVisitRoute, controllers.HandleDailyVisitGet)

	api.Get(constants.CheckinRoute, controllers.HandleCheckinGet)
	api.Post(constants.CheckinRoute, controllers.HandleCheckinPost)

	api.Get(constants.ThemeRoute, controllers.HandleThemeGet)
	api.Post(constants.ThemeRoute, controllers.HandleThemePost)
	api.Delete(constants.ThemeRoute, controllers.HandleThemeDelete)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

// newStore binds the Redis-backed KV store, or nothing at all when
// CACHE_HOST is unset. With no store the endpoints answer 501 and
// browsers fall back to local counting.
func newStore() kvstore.Store {
	if env.GetEnv("CACHE_HOST", "") == "" {
		return nil
	}
	return kvstore.NewRedisStore(cache.GetClient())
}

// newLimiterStorage keeps rate-limit state in Redis (database 1, the
// counters use 0) so limits survive restarts. Without Redis the
// limiter falls back to its in-memory default.
func newLimiterStorage() fiber.Storage {
	if env.GetEnv("CACHE_HOST", "") == "" {
		return nil
	}

	host := "localhost"
	port := 6379
	if addr := cache.GetClient().Options().Addr; addr != "" {
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: cache.GetClient().Options().Password,
		Database: 1,
		Reset:    false,
	})
}
