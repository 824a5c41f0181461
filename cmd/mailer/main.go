package main

import (
	"exam_portal/config"
	"exam_portal/infra/queue"
	"exam_portal/internal/logger"
	"exam_portal/internal/mailer"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.Get()

	log.Info().
		Str("broker", cfg.KafkaBroker).
		Str("topic", cfg.KafkaTopic).
		Str("group_id", cfg.KafkaGroupID).
		Msg("mailer starting")

	mailService := mailer.NewMailService(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.MailFrom,
		cfg.MailFromName,
	)

	handler := mailer.NewMailHandler(mailService)

	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		handler,
	)

	log.Info().Msg("mailer listening for events")
	consumer.Listen()
}
