package smoke

import "time"

// Defaults applied to zero Config fields.
const (
	DefaultWorkers = 4
	DefaultTimeout = 10 * time.Second
)

// Routes exercised by the smoke.
const (
	pathHealth     = "/healthz"
	pathEcho       = "/api/echo"
	pathUpload     = "/api/upload-csv"
	pathAutomation = "/api/automation/start"
)

// fixedPaths return the same body on every call.
var fixedPaths = []string{ //nolint:gochecknoglobals // read-only route list
	"/api/hello",
	"/api/dashboard",
	"/api/enrichments",
	"/api/contacts",
	"/api/campaigns",
	"/api/settings",
	"/api/history",
}
