package notificacao

import (
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

// Mailer abstrai o envio de e-mail para que as tarefas agendadas possam
// ser testadas sem servidor SMTP.
type Mailer interface {
	Enviar(destinatarios []string, assunto, corpo string) error
}

type smtpMailer struct {
	host      string
	porta     int
	usuario   string
	senha     string
	remetente string
}

// NewSMTPMailer lê a configuração SMTP do ambiente.
func NewSMTPMailer() Mailer {
	porta, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		porta = 587
	}
	return &smtpMailer{
		host:      os.Getenv("SMTP_HOST"),
		porta:     porta,
		usuario:   os.Getenv("SMTP_USERNAME"),
		senha:     os.Getenv("SMTP_PASSWORD"),
		remetente: os.Getenv("SMTP_FROM"),
	}
}

func (m *smtpMailer) Enviar(destinatarios []string, assunto, corpo string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.remetente)
	msg.SetHeader("To", destinatarios...)
	msg.SetHeader("Subject", assunto)
	msg.SetBody("text/plain", corpo)

	d := gomail.NewDialer(m.host, m.porta, m.usuario, m.senha)
	return d.DialAndSend(msg)
}
