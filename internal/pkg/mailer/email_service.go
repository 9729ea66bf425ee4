// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendStoreFailureAlert(op string, sessionId uint, reason string) error
	SendDeliveryFailureAlert(userName, phoneNumber, reason string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	onCallEmail string // Where critical engine alerts land
}

func NewEmailService(host string, port int, username, password, senderEmail, onCallEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		onCallEmail: onCallEmail,
	}
}

func (s *emailService) SendStoreFailureAlert(op string, sessionId uint, reason string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.onCallEmail)
	m.SetHeader("Subject", fmt.Sprintf("[Work-Alone] Store retries exhausted: %s", op))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2 style="color: #C0392B;">Store write kept failing</h2>
			<p>The engine exhausted its retry budget for operation <strong>%s</strong> on session <strong>#%d</strong>.</p>
			<p>Last error:</p>
			<pre style="background: #f4f4f4; padding: 10px; border-radius: 5px;">%s</pre>
			<p>The session state may be behind reality. Check the database and the engine logs.</p>
		</div>
	`, op, sessionId, reason)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send store failure alert to %s: %v\n", s.onCallEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Store failure alert sent to %s\n", s.onCallEmail)
	return nil
}

func (s *emailService) SendDeliveryFailureAlert(userName, phoneNumber, reason string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.onCallEmail)
	m.SetHeader("Subject", fmt.Sprintf("[Work-Alone] Escalation SMS undelivered for %s", userName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2 style="color: #C0392B;">Escalation SMS could not be delivered</h2>
			<p>An alert for <strong>%s</strong> did not reach contact number <strong>%s</strong>.</p>
			<p>Gateway error:</p>
			<pre style="background: #f4f4f4; padding: 10px; border-radius: 5px;">%s</pre>
			<p>Someone may need to reach this contact another way.</p>
		</div>
	`, userName, phoneNumber, reason)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send delivery failure alert to %s: %v\n", s.onCallEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Delivery failure alert sent to %s\n", s.onCallEmail)
	return nil
}
