// internal/app/features/auditlog/types.go
package auditlog

import "github.com/dalemusser/primementor/internal/app/store/audit"

type listResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Events  []audit.Event `json:"events"`
}

// eventTypesForCategory returns the event types recorded under category.
// An empty category returns every type; an unknown one returns nil.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedUnknownEmail,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedRateLimit,
		audit.EventTeacherRegistered,
	}
	adminEvents := []string{
		audit.EventTeacherDeleted,
		audit.EventTeacherStatusChanged,
		audit.EventTeacherAssigned,
		audit.EventMeetingLinkSet,
		audit.EventSyncJobsRetried,
		audit.EventAssessmentStatusChanged,
	}
	bookingEvents := []string{
		audit.EventBookingCreated,
		audit.EventBookingAccepted,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case audit.CategoryBooking:
		return bookingEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents)+len(bookingEvents))
		all = append(all, authEvents...)
		all = append(all, adminEvents...)
		return append(all, bookingEvents...)
	default:
		return nil
	}
}

func knownEventType(category, eventType string) bool {
	for _, et := range eventTypesForCategory(category) {
		if et == eventType {
			return true
		}
	}
	return false
}
