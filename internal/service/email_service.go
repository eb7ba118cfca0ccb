package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/soaringcoupons/internal/config"
	"github.com/soaringcoupons/internal/models"
)

// EmailService mail delivery
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates an email service
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// CouponEmailInput coupon delivery email input
type CouponEmailInput struct {
	CouponID     string
	TypeTitle    string
	WelcomeText  string
	ValidityText string
	Expires      string
	PayerName    string
}

// SendCouponEmail sends a freshly issued coupon to the buyer
func (s *EmailService) SendCouponEmail(toEmail string, input CouponEmailInput) error {
	subject := fmt.Sprintf("Your flight coupon %s", input.CouponID)
	body := buildCouponEmailBody(input)
	return s.sendTextEmail(toEmail, subject, body)
}

func buildCouponEmailBody(input CouponEmailInput) string {
	var buf bytes.Buffer
	greeting := "Hello"
	if strings.TrimSpace(input.PayerName) != "" {
		greeting = fmt.Sprintf("Hello %s", strings.TrimSpace(input.PayerName))
	}
	buf.WriteString(greeting + ",\n\n")
	if strings.TrimSpace(input.WelcomeText) != "" {
		buf.WriteString(strings.TrimSpace(input.WelcomeText) + "\n\n")
	}
	buf.WriteString(fmt.Sprintf("Coupon: %s\n", input.TypeTitle))
	buf.WriteString(fmt.Sprintf("Coupon number: %s\n", input.CouponID))
	buf.WriteString(fmt.Sprintf("Valid until: %s\n", input.Expires))
	if strings.TrimSpace(input.ValidityText) != "" {
		buf.WriteString("\n" + strings.TrimSpace(input.ValidityText) + "\n")
	}
	buf.WriteString("\nShow the coupon number at the airfield to redeem your flight.\n")
	return buf.String()
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	if s.cfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	return sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
}

// FormatExpires renders an expiration date for email and API output
func FormatExpires(coupon *models.Coupon) string {
	return coupon.Expires.Format("2006-01-02")
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
