package services

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/coot-trips/tripsort/pkg/core/model"
	"github.com/coot-trips/tripsort/pkg/db"
)

// EmailSender sends a plain-text email
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

const notifySubject = "Your COOT trip"

var notifyTemplate = template.Must(template.New("notify").Parse(`Hi {{.Student.FirstName}},

You have been placed on {{.Trip.TripName}} ({{.Trip.TripType}}).
{{- if .Trip.Address}}
Meeting point: {{.Trip.Address}}
{{- end}}
{{- if or .Trip.Water .Trip.Tent}}

This trip involves{{if .Trip.Water}} time on the water{{end}}{{if and .Trip.Water .Trip.Tent}} and{{end}}{{if .Trip.Tent}} camping in tents{{end}}.
{{- end}}

See you soon,
COOT
`))

// NotifyStudentsResult summarises a notification run
type NotifyStudentsResult struct {
	Sent int

	// WouldSend counts the emails a dry run rendered but did not send
	WouldSend int

	// Skipped lists students with no trip or no email address
	Skipped []string

	// Failed lists students whose email could not be sent
	Failed []string
}

// NotifyStudents emails every assigned student the trip they were placed on.
// A failed send is recorded and the run continues; when dryRun is set nothing is sent.
func NotifyStudents(
	ctx context.Context,
	database db.RosterLoader,
	sender EmailSender,
	logger *zap.Logger,
	dryRun bool,
) (*NotifyStudentsResult, error) {
	logger.Debug("Starting notifyStudents", zap.Bool("dry_run", dryRun))

	students, trips, err := loadRoster(ctx, database, logger)
	if err != nil {
		return nil, err
	}

	known := tripsByID(trips)
	result := &NotifyStudentsResult{}

	for _, s := range students {
		trip := known[s.AssignedTripID]
		if trip == nil || strings.TrimSpace(s.Email) == "" {
			result.Skipped = append(result.Skipped, s.FullName())
			continue
		}

		body, err := notificationBody(s, trip)
		if err != nil {
			return nil, fmt.Errorf("failed to render email for %s: %w", s.FullName(), err)
		}

		if dryRun {
			logger.Debug("Would send notification", zap.String("to", s.Email), zap.String("trip", trip.TripName))
			result.WouldSend++
			continue
		}

		if err := sender.SendEmail(ctx, s.Email, notifySubject, body); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			logger.Warn("Failed to send notification", zap.String("to", s.Email), zap.Error(err))
			result.Failed = append(result.Failed, s.FullName())
			continue
		}
		result.Sent++
	}

	logger.Info("Notified students",
		zap.Int("sent", result.Sent),
		zap.Int("would_send", result.WouldSend),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("failed", len(result.Failed)))

	return result, nil
}

func notificationBody(s *model.Student, trip *model.Trip) (string, error) {
	var b strings.Builder
	err := notifyTemplate.Execute(&b, struct {
		Student *model.Student
		Trip    *model.Trip
	}{s, trip})
	return b.String(), err
}
