package catalog_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/enrichdash/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDashboardShape(t *testing.T) {
	Convey("Given the dashboard summary", t, func() {
		raw, err := json.Marshal(catalog.DashboardSummary())
		So(err, ShouldBeNil)

		var decoded map[string]any
		So(json.Unmarshal(raw, &decoded), ShouldBeNil)

		Convey("Then enrichments_over_time has seven integers", func() {
			series, ok := decoded["enrichments_over_time"].([]any)
			So(ok, ShouldBeTrue)
			So(len(series), ShouldEqual, 7)
		})

		Convey("Then every success_vs_failed value is a two-element array", func() {
			svf, ok := decoded["success_vs_failed"].(map[string]any)
			So(ok, ShouldBeTrue)
			So(len(svf), ShouldEqual, 3)
			for _, v := range svf {
				pair, ok := v.([]any)
				So(ok, ShouldBeTrue)
				So(len(pair), ShouldEqual, 2)
			}
		})

		Convey("Then the headline counters are present", func() {
			for _, key := range []string{"total_leads", "enriched_leads", "failed_enrichments", "active_campaigns", "recent_activity"} {
				So(decoded, ShouldContainKey, key)
			}
		})
	})
}

func TestFixturesAreFresh(t *testing.T) {
	Convey("Given a caller that mutates a returned payload", t, func() {
		first := catalog.Contacts()
		first[0].Name = "mutated"
		d := catalog.DashboardSummary()
		d.SuccessVsFailed[catalog.ProviderZoomInfo] = catalog.SuccessFailed{0, 0}

		Convey("Then later calls are unaffected", func() {
			So(catalog.Contacts()[0].Name, ShouldEqual, "Sarah Chen")
			So(catalog.DashboardSummary().SuccessVsFailed[catalog.ProviderZoomInfo], ShouldEqual, catalog.SuccessFailed{4500, 200})
		})
	})
}

func TestFixturesAreDeterministic(t *testing.T) {
	Convey("Given every fixed payload", t, func() {
		payloads := map[string]func() any{
			"hello":       func() any { return catalog.Hello() },
			"dashboard":   func() any { return catalog.DashboardSummary() },
			"enrichments": func() any { return catalog.Enrichments() },
			"contacts":    func() any { return catalog.Contacts() },
			"campaigns":   func() any { return catalog.Campaigns() },
			"settings":    func() any { return catalog.WorkspaceSettings() },
			"history":     func() any { return catalog.History() },
		}

		Convey("Then two encodings are byte-identical", func() {
			for _, build := range payloads {
				a, err := json.Marshal(build())
				So(err, ShouldBeNil)
				b, err := json.Marshal(build())
				So(err, ShouldBeNil)
				So(string(a), ShouldEqual, string(b))
			}
		})
	})
}

func TestHistory(t *testing.T) {
	Convey("Given the run history", t, func() {
		history := catalog.History()

		Convey("Then ids are unique and timestamps are ISO-8601", func() {
			So(len(history), ShouldEqual, 5)
			seen := map[string]bool{}
			for _, h := range history {
				So(seen[h.ID], ShouldBeFalse)
				seen[h.ID] = true
				_, err := time.Parse("2006-01-02T15:04:05", h.CreatedAt)
				So(err, ShouldBeNil)
			}
		})
	})
}

func TestCampaignsAndSettings(t *testing.T) {
	Convey("Given campaigns and settings", t, func() {
		Convey("Then completion is a percentage", func() {
			for _, c := range catalog.Campaigns() {
				So(c.Completion, ShouldBeBetweenOrEqual, 0, 100)
				So(c.Contacts, ShouldBeGreaterThan, 0)
			}
		})

		Convey("Then settings carry user roles", func() {
			s := catalog.WorkspaceSettings()
			So(s.CompanyName, ShouldEqual, "Acme Corporation")
			So(len(s.UserRoles), ShouldEqual, 2)
			So(s.UserRoles[0].Role, ShouldEqual, "Owner")
		})
	})
}
