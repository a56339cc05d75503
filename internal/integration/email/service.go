// Package email provides email sending functionality.
package email

import (
	"fmt"
	"time"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	"github.com/emergency-shield/backend/internal/domain/valueobject"
)

var statusLabels = map[entity.ShieldStatusLevel]string{
	entity.ShieldStatusAtRisk:  "At risk",
	entity.ShieldStatusPartial: "Partially protected",
	entity.ShieldStatusSafe:    "Safe",
}

// Service builds notification jobs. Jobs are written by the caller in the
// same transaction as the change that triggered them.
type Service struct {
	appBaseURL string
}

// NewService creates a new email service.
func NewService(appBaseURL string) *Service {
	return &Service{
		appBaseURL: appBaseURL,
	}
}

// StatusChangedJob builds the shield_status_changed email for a user.
func (s *Service) StatusChangedJob(user *entity.User, previous, current *entity.ShieldStatus, now time.Time) *entity.EmailJob {
	if user == nil || user.Email == "" || previous == nil || current == nil {
		return nil
	}

	subject := fmt.Sprintf("Your emergency shield is now: %s", statusLabels[current.Status])

	templateData := map[string]interface{}{
		"user_name":       user.Name,
		"previous_status": string(previous.Status),
		"current_status":  string(current.Status),
		"total":           valueobject.FormatINR(current.TotalEmergencyShield),
		"target":          valueobject.FormatINR(current.EmergencyTarget),
		"optimal":         valueobject.FormatINR(current.EmergencyOptimal),
		"months_covered":  current.MonthsCovered.StringFixed(1),
		"shortfall":       valueobject.FormatINR(current.Shortfall),
		"dashboard_url":   s.appBaseURL + "/emergency-shield",
	}

	return entity.NewEmailJob(
		user.ID,
		entity.TemplateShieldStatusChanged,
		user.Email,
		user.Name,
		subject,
		templateData,
		now,
	)
}

// Ensure Service implements adapter.StatusChangeNotifier.
var _ adapter.StatusChangeNotifier = (*Service)(nil)
