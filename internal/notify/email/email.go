package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/roster/internal/config"
	"github.com/jon4hz/roster/internal/database"
	mail "github.com/xhit/go-simple-mail/v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

var welcomeTemplate = template.Must(template.ParseFS(templatesFS, "templates/welcome.html"))

// NotificationService sends welcome emails to newly created users.
type NotificationService struct {
	config    *config.EmailConfig
	serverURL string
}

// Welcome contains the data rendered into a welcome email.
type Welcome struct {
	ID        uint
	Username  string
	Email     string
	ServerURL string
}

// New creates a new email notification service.
func New(cfg *config.EmailConfig, serverURL string) *NotificationService {
	return &NotificationService{
		config:    cfg,
		serverURL: serverURL,
	}
}

// NotifyUserCreated sends the welcome email to user.
func (n *NotificationService) NotifyUserCreated(ctx context.Context, user *database.User) error {
	if n.config == nil || !n.config.Enabled {
		log.Debug("Email notifications are disabled, skipping welcome email")
		return nil
	}

	if user == nil || user.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("[Roster] Welcome, %s", user.Username)

	if n.config.DryRun {
		log.Info("DRY RUN: Would send welcome email", "to", user.Email, "subject", subject)
		return nil
	}

	body, err := renderWelcome(Welcome{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		ServerURL: n.serverURL,
	})
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return n.sendEmail(ctx, user.Email, subject, body)
}

func renderWelcome(w Welcome) (string, error) {
	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, w); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// sendEmail sends an email using go-simple-mail.
func (n *NotificationService) sendEmail(ctx context.Context, to, subject, body string) error {
	server := mail.NewSMTPClient()
	server.Host = n.config.SMTPHost
	server.Port = n.config.SMTPPort
	server.Username = n.config.Username
	server.Password = n.config.Password

	switch {
	case n.config.UseSSL:
		server.Encryption = mail.EncryptionSSLTLS
	case n.config.UseTLS:
		server.Encryption = mail.EncryptionSTARTTLS
	default:
		server.Encryption = mail.EncryptionNone
	}

	if n.config.InsecureSkipVerify {
		server.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < server.ConnectTimeout {
			server.ConnectTimeout = remaining
			server.SendTimeout = remaining
		}
	}

	smtpClient, err := server.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() {
		if closeErr := smtpClient.Close(); closeErr != nil {
			log.Warn("Failed to close SMTP client", "error", closeErr)
		}
	}()

	fromName := n.config.FromName
	if fromName == "" {
		fromName = "Roster"
	}

	email := mail.NewMSG()
	email.SetFrom(fmt.Sprintf("%s <%s>", fromName, n.config.FromEmail))
	email.AddTo(to)
	email.SetSubject(subject)
	email.SetBody(mail.TextHTML, body)

	if email.Error != nil {
		return fmt.Errorf("failed to build email: %w", email.Error)
	}

	if err := email.Send(smtpClient); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info("Welcome email sent", "to", to)
	return nil
}
