package email

import (
	"fmt"

	"github.com/tu-usuario/stockmaster-api/pkg/config"
	gomail "gopkg.in/gomail.v2"
)

// SMTPSender implementación del puerto EmailSender sobre SMTP (gomail).
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender construye el sender con la configuración SMTP.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// SendWelcome envía el correo de bienvenida tras el registro.
func (s *SMTPSender) SendWelcome(to, fullName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Bienvenido a StockMaster")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Hola %s,</p><p>Tu cuenta quedó creada. Crea tu organización o pide a un administrador que te agregue a la suya para empezar a gestionar inventario.</p>",
		fullName,
	))
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	return nil
}
