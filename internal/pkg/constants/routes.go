package constants

// Static route constants
const (
	PublicRoute     = "/"
	APIRoute        = "/api"
	DailyVisitRoute = "/daily-visit"
	CheckinRoute    = "/checkin"
	ThemeRoute      = "/theme"
)
