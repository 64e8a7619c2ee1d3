// Package services отправляет клиентам письма о скором окончании подписки.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/gym-manager/internal/config"
	"github.com/magabrotheeeer/gym-manager/internal/lib/period"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/lib/smtp"
	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/rabbitmq"
)

// SenderService формирует и отправляет письма от имени зала.
type SenderService struct {
	transport smtp.Dialer
	gym       config.Gym
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(gym config.Gym, transport smtp.Dialer, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		gym:       gym,
		log:       log,
	}
}

// HandleExpiringNotice обработчик сообщений очереди уведомлений.
// Битое сообщение отклоняется без повторной доставки.
func (s *SenderService) HandleExpiringNotice(_ context.Context, body []byte) error {
	var notice models.ExpiringNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		return fmt.Errorf("decode expiring notice: %w: %v", rabbitmq.ErrReject, err)
	}
	if notice.Email == "" {
		return fmt.Errorf("expiring notice %s without email: %w", notice.SubscriptionID, rabbitmq.ErrReject)
	}

	subject := fmt.Sprintf("%s: your subscription ends soon", s.gym.GymName)
	return s.sendEmail([]string{notice.Email}, subject, s.expiringBody(notice))
}

func (s *SenderService) expiringBody(n models.ExpiringNotice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello, %s!\n\n", n.TraineeName)
	plan := "Your subscription"
	if n.PackageName != "" {
		plan = fmt.Sprintf("Your %s subscription", n.PackageName)
	}
	fmt.Fprintf(&b, "%s at %s ends on %s.\n", plan, s.gym.GymName, period.DateKey(n.EndDate.In(s.gym.Location())))
	b.WriteString("Please visit the front desk to renew it in advance.\n")

	var contacts []string
	if s.gym.GymPhone != "" {
		contacts = append(contacts, "Phone: "+s.gym.GymPhone)
	}
	if s.gym.GymAddress != "" {
		contacts = append(contacts, "Address: "+s.gym.GymAddress)
	}
	if len(contacts) > 0 {
		b.WriteString("\n" + strings.Join(contacts, "\n") + "\n")
	}
	return b.String()
}

func (s *SenderService) from() string {
	if s.gym.GymEmail != "" {
		return s.gym.GymEmail
	}
	return s.transport.Sender()
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	from := s.from()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
