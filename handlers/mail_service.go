package handlers

import (
	"fmt"
	"log"
	"os"
	"strconv"

	gomail "github.com/wneessen/go-mail"
)

// MailService sends transactional email (worker invites, password resets).
// When SMTP is not configured the service is a logging no-op, and send
// failures are never propagated to the caller: the account change has
// already happened by the time we mail about it.
type MailService struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailService() *MailService {
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}
	return &MailService{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: os.Getenv("SMTP_FROM"),
	}
}

func (ms *MailService) send(to, subject, body string) {
	if ms.host == "" {
		log.Printf("SMTP not configured, skipping email %q to %s", subject, to)
		return
	}

	msg := gomail.NewMsg()
	if err := msg.From(ms.from); err != nil {
		log.Printf("❌ Invalid SMTP_FROM address: %v", err)
		return
	}
	if err := msg.To(to); err != nil {
		log.Printf("❌ Invalid recipient %s: %v", to, err)
		return
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(ms.host,
		gomail.WithPort(ms.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(ms.user),
		gomail.WithPassword(ms.pass),
	)
	if err != nil {
		log.Printf("❌ Failed to build SMTP client: %v", err)
		return
	}
	if err := client.DialAndSend(msg); err != nil {
		log.Printf("❌ Failed to send email %q to %s: %v", subject, to, err)
		return
	}
	log.Printf("✅ Email %q sent to %s", subject, to)
}

// SendWorkerInvite mails a new worker their login credentials.
func (ms *MailService) SendWorkerInvite(email, workerName, ownerName, tempPassword string) {
	body := fmt.Sprintf(
		"Hi %s,\n\n%s has invited you to SiteLedger.\n\nLogin: %s\nTemporary password: %s\n\nPlease change your password after signing in.\n",
		workerName, ownerName, email, tempPassword)
	ms.send(email, "You've been invited to SiteLedger", body)
}

// SendPasswordResetNotice mails a worker their new password after an owner reset.
func (ms *MailService) SendPasswordResetNotice(email, workerName, newPassword string) {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour SiteLedger password was reset by your manager.\n\nNew password: %s\n\nPlease change it after signing in.\n",
		workerName, newPassword)
	ms.send(email, "Your SiteLedger password was reset", body)
}
