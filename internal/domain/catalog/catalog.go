// Package catalog holds the fixed payloads served by the dashboard's
// read-only endpoints. Every function returns a freshly built value, so
// callers may modify what they get without affecting later calls.
package catalog

// Greeting is the body of GET /api/hello.
type Greeting struct {
	Message string `json:"message"`
}

// Activity is one row of the dashboard's recent activity feed.
type Activity struct {
	Domain    string `json:"domain"`
	Status    string `json:"status"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// SuccessFailed is a [success, failed] pair rendered as a two-element array.
type SuccessFailed [2]int

// Dashboard aggregates the headline numbers and charts.
type Dashboard struct {
	TotalLeads          int                      `json:"total_leads"`
	EnrichedLeads       int                      `json:"enriched_leads"`
	FailedEnrichments   int                      `json:"failed_enrichments"`
	ActiveCampaigns     int                      `json:"active_campaigns"`
	EnrichmentsOverTime [7]int                   `json:"enrichments_over_time"`
	SuccessVsFailed     map[string]SuccessFailed `json:"success_vs_failed"`
	RecentActivity      []Activity               `json:"recent_activity"`
}

// Enrichment is the per-company provider status row.
type Enrichment struct {
	Company      string `json:"company"`
	Domain       string `json:"domain"`
	ZoomInfo     string `json:"zoominfo"`
	RocketReach  string `json:"rocketreach"`
	EmailPattern string `json:"email_pattern"`
	LastUpdated  string `json:"last_updated"`
}

// Contact is an enriched person record.
type Contact struct {
	Name      string `json:"name"`
	Company   string `json:"company"`
	Domain    string `json:"domain"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Employees string `json:"employees"`
	Revenue   string `json:"revenue"`
	Source    string `json:"source"`
}

// Campaign is an outreach campaign summary. Completion is a percentage.
type Campaign struct {
	Name       string `json:"name"`
	Contacts   int    `json:"contacts"`
	Created    string `json:"created"`
	Status     string `json:"status"`
	Completion int    `json:"completion"`
}

// UserRole binds a user email to a workspace role.
type UserRole struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Settings is the workspace configuration view.
type Settings struct {
	CompanyName string     `json:"company_name"`
	Timezone    string     `json:"timezone"`
	UserRoles   []UserRole `json:"user_roles"`
}

// HistoryEntry is one enrichment agent run. CreatedAt is ISO-8601 local time.
type HistoryEntry struct {
	ID           string `json:"id"`
	CompanyName  string `json:"company_name"`
	Domain       string `json:"domain"`
	Agent        string `json:"agent"`
	Disposition  string `json:"disposition"`
	Remarks      string `json:"remarks"`
	Headquarters string `json:"headquarters"`
	CreatedAt    string `json:"created_at"`
}
