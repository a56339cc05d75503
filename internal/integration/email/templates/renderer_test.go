package templates

import (
	"strings"
	"testing"
)

func TestRenderShieldStatusChanged(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := ShieldStatusChangedData{
		UserName:       "Asha",
		PreviousStatus: "at_risk",
		CurrentStatus:  "partial",
		Total:          "₹1,20,000.00",
		MonthsCovered:  "4.00",
		DashboardURL:   "https://app.example.com/shield",
	}
	html, text, err := r.Render("shield_status_changed", data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{"Hi Asha", "from At risk to Partially protected", "Nice work", "https://app.example.com/shield"} {
		if !strings.Contains(text, want) {
			t.Errorf("text body missing %q:\n%s", want, text)
		}
	}
	if html == "" {
		t.Error("html body is empty")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if r.Has("password_reset") {
		t.Fatal("Has(password_reset) = true")
	}
	if _, _, err := r.Render("password_reset", nil); err == nil {
		t.Fatal("Render of an unknown template succeeded")
	}
}

func TestImproved(t *testing.T) {
	down := ShieldStatusChangedData{PreviousStatus: "safe", CurrentStatus: "partial"}
	if down.Improved() {
		t.Error("safe -> partial reported as improved")
	}
	up := ShieldStatusChangedData{PreviousStatus: "partial", CurrentStatus: "safe"}
	if !up.Improved() {
		t.Error("partial -> safe not reported as improved")
	}
}
