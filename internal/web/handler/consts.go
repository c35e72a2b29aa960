package handler

const (
	// AdminLayout wraps the login and admin pages.
	AdminLayout = "layouts/admin"

	// SiteLayout wraps the public pages.
	SiteLayout = "layouts/site"

	// RootPath is the root path of a route group.
	RootPath = "/"

	// LoginPath is the admin login page.
	LoginPath = "/login"

	// LogoutPath ends the admin session.
	LogoutPath = "/logout"

	// SettingsPath is the gateway settings form.
	SettingsPath = "/admin/settings/vison-ai"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
