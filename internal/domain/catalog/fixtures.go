package catalog

// Provider names as shown on the dashboard.
const (
	ProviderZoomInfo    = "ZoomInfo"
	ProviderRocketReach = "RocketReach"
	ProviderBuildata    = "Buildata"
)

// HelloMessage is the greeting returned by GET /api/hello.
const HelloMessage = "Hello from the lead enrichment backend!"

// Hello returns the static greeting.
func Hello() Greeting {
	return Greeting{Message: HelloMessage}
}

// DashboardSummary returns the dashboard payload.
func DashboardSummary() Dashboard {
	return Dashboard{
		TotalLeads:          12543,
		EnrichedLeads:       10892,
		FailedEnrichments:   342,
		ActiveCampaigns:     18,
		EnrichmentsOverTime: [7]int{300, 400, 380, 420, 500, 600, 580},
		SuccessVsFailed: map[string]SuccessFailed{
			ProviderZoomInfo:    {4500, 200},
			ProviderRocketReach: {3200, 150},
			ProviderBuildata:    {2500, 100},
		},
		RecentActivity: []Activity{
			{Domain: "stripe.com", Status: "Success", Source: ProviderZoomInfo, Timestamp: "2 min ago"},
			{Domain: "figma.com", Status: "Success", Source: ProviderRocketReach, Timestamp: "5 min ago"},
		},
	}
}

// Enrichments returns the enrichment status table.
func Enrichments() []Enrichment {
	return []Enrichment{
		{Company: "Stripe Inc", Domain: "stripe.com", ZoomInfo: "Success", RocketReach: "Success", EmailPattern: "{first}@stripe.com", LastUpdated: "2 hours ago"},
		{Company: "Figma", Domain: "figma.com", ZoomInfo: "Success", RocketReach: "Pending", EmailPattern: "{first}.{last}@figma.com", LastUpdated: "3 hours ago"},
		{Company: "Acme Corporation", Domain: "acme-corp.com", ZoomInfo: "Failed", RocketReach: "Failed", EmailPattern: "-", LastUpdated: "5 hours ago"},
	}
}

// Contacts returns the enriched contact list.
func Contacts() []Contact {
	return []Contact{
		{Name: "Sarah Chen", Company: "Stripe Inc", Domain: "stripe.com", Email: "sarah@stripe.com", Phone: "+1 (555) 123-4567", Employees: "7,000+", Revenue: "$7.4B", Source: ProviderZoomInfo},
		{Name: "Michael Rodriguez", Company: "Figma", Domain: "figma.com", Email: "michael.rodriguez@figma.com", Phone: "+1 (555) 234-5678", Employees: "800+", Revenue: "$400M", Source: ProviderRocketReach},
	}
}

// Campaigns returns the campaign list.
func Campaigns() []Campaign {
	return []Campaign{
		{Name: "Q1 2026 Outreach", Contacts: 1247, Created: "Jan 15, 2026", Status: "Active", Completion: 68},
		{Name: "Enterprise Lead Gen", Contacts: 892, Created: "Jan 10, 2026", Status: "Active", Completion: 45},
	}
}

// WorkspaceSettings returns the settings view.
func WorkspaceSettings() Settings {
	return Settings{
		CompanyName: "Acme Corporation",
		Timezone:    "America/Los Angeles (PST)",
		UserRoles: []UserRole{
			{Email: "john@company.com", Role: "Owner"},
			{Email: "sarah@company.com", Role: "Member"},
		},
	}
}

// History returns the agent run history, oldest first.
func History() []HistoryEntry {
	return []HistoryEntry{
		{ID: "1", CompanyName: "Stripe Inc", Domain: "stripe.com", Agent: "ZoomInfo Agent", Disposition: "Enriched", Remarks: "All data matched.", Headquarters: "San Francisco, CA", CreatedAt: "2026-01-21T10:15:00"},
		{ID: "2", CompanyName: "Figma", Domain: "figma.com", Agent: "RocketReach Agent", Disposition: "Skipped", Remarks: "Domain not found in dataset.", Headquarters: "San Francisco, CA", CreatedAt: "2026-01-21T11:00:00"},
		{ID: "3", CompanyName: "Acme Corporation", Domain: "acme-corp.com", Agent: "Validation Agent", Disposition: "Failed", Remarks: "Email validation failed.", Headquarters: "New York, NY", CreatedAt: "2026-01-21T12:30:00"},
		{ID: "4", CompanyName: "Rocket Labs", Domain: "rocketlabs.com", Agent: "Automation Engine", Disposition: "Invalid Email", Remarks: "Invalid email format detected.", Headquarters: "Austin, TX", CreatedAt: "2026-01-21T13:45:00"},
		{ID: "5", CompanyName: "PurpleTech", Domain: "purpletech.com", Agent: "ZoomInfo Agent", Disposition: "Duplicate", Remarks: "Duplicate record found.", Headquarters: "Seattle, WA", CreatedAt: "2026-01-21T14:10:00"},
	}
}
