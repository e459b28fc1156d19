package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ConflictError reports that a candidate interval overlaps an existing
// appointment on the same specialist's day. The occupied range is carried
// for diagnostics.
type ConflictError struct {
	AppointmentID uuid.UUID
	StartTime     string
	EndTime       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("specialist already booked from %s to %s", e.StartTime, e.EndTime)
}

// overlaps applies the half-open interval rule: [s1,e1) and [s2,e2) conflict
// iff s1 < e2 && s2 < e1. Back-to-back appointments (e1 == s2) do not
// conflict.
func overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// checkAvailability returns a ConflictError when [startMin, endMin) overlaps
// any non-cancelled appointment for (specialistID, date), skipping excludeID
// so a reschedule does not collide with its own current slot. Completed
// appointments still occupy their recorded range; only cancellation frees a
// slot.
func (s *Service) checkAvailability(ctx context.Context, specialistID uuid.UUID, date string, startMin, endMin int, excludeID uuid.UUID) error {
	existing, err := s.repo.ListBySpecialistAndDate(ctx, specialistID, date)
	if err != nil {
		return fmt.Errorf("list specialist day: %w", err)
	}

	for _, appt := range existing {
		if appt.ID == excludeID || appt.Status == StatusCancelled {
			continue
		}

		apptStart, err := ParseClock(appt.StartTime)
		if err != nil {
			return fmt.Errorf("stored start time for %s: %w", appt.ID, err)
		}
		apptEnd, err := ParseClock(appt.EndTime)
		if err != nil {
			return fmt.Errorf("stored end time for %s: %w", appt.ID, err)
		}

		if overlaps(startMin, endMin, apptStart, apptEnd) {
			return &ConflictError{
				AppointmentID: appt.ID,
				StartTime:     appt.StartTime,
				EndTime:       appt.EndTime,
			}
		}
	}

	return nil
}
