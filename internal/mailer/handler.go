package mailer

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"exam_portal/internal/dto"
	"exam_portal/internal/logger"
)

// MailHandler turns broker events into outbound email. Unknown event keys
// are skipped, not failed, so new producers never wedge the consumer group.
type MailHandler struct {
	MailService *MailService
	log         zerolog.Logger
}

func NewMailHandler(ms *MailService) *MailHandler {
	return &MailHandler{MailService: ms, log: logger.Get()}
}

func (h *MailHandler) HandleMessage(key, value string) error {
	switch key {
	case dto.EventStudentWelcome:
		return h.handleWelcome(value)
	case dto.EventApplicationSubmitted, dto.EventApplicationApproved,
		dto.EventApplicationRejected, dto.EventApplicationMarked:
		return h.handleApplication(key, value)
	default:
		h.log.Warn().Str("key", key).Msg("unknown event key, skipping")
		return nil
	}
}

func (h *MailHandler) handleWelcome(value string) error {
	var event dto.WelcomeEvent
	if err := json.Unmarshal([]byte(value), &event); err != nil {
		h.log.Error().Str("payload", value).Msg("invalid welcome event payload")
		return err
	}

	return h.MailService.Send(event.StudentEmail, "Welcome to the Exam Portal", mailContent{
		Heading: "Welcome",
		Name:    event.StudentName,
		Body:    "Your exam portal account is ready. Log in to submit resit, retake or special exam applications and track their progress.",
	})
}

func (h *MailHandler) handleApplication(key, value string) error {
	var event dto.ApplicationEvent
	if err := json.Unmarshal([]byte(value), &event); err != nil {
		h.log.Error().Str("payload", value).Msg("invalid application event payload")
		return err
	}

	var subject string
	content := mailContent{Name: event.StudentName}

	switch key {
	case dto.EventApplicationSubmitted:
		subject = "Application Received"
		content.Heading = "Application Received"
		content.Body = fmt.Sprintf("Your application %s for unit %s has been received and is awaiting review by an exam officer.",
			event.ApplicationID, event.UnitCode)
	case dto.EventApplicationApproved:
		subject = "Application Approved"
		content.Heading = "Application Approved"
		content.Body = fmt.Sprintf("Your application %s for unit %s has been approved and forwarded for marking.",
			event.ApplicationID, event.UnitCode)
	case dto.EventApplicationRejected:
		subject = "Application Rejected"
		content.Heading = "Application Rejected"
		content.Body = fmt.Sprintf("Your application %s for unit %s was not approved.",
			event.ApplicationID, event.UnitCode)
		if event.Comments != "" {
			content.Detail = "Reason: " + event.Comments
		}
	case dto.EventApplicationMarked:
		subject = "Exam Marked"
		content.Heading = "Exam Marked"
		content.Body = fmt.Sprintf("Your exam for unit %s (application %s) has been marked. Log in to the portal for details.",
			event.UnitCode, event.ApplicationID)
	}

	return h.MailService.Send(event.StudentEmail, subject, content)
}
