package lib

import (
	"bytes"
	"log"

	"travl/src/config"

	"github.com/wneessen/go-mail"
)

func GetSMTPClient() (*mail.Client, error) {
	s := config.Get().SMTP
	c, err := mail.NewClient(
		s.Host,
		mail.WithPort(s.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.Username),
		mail.WithPassword(s.Password),
	)
	if err != nil {
		log.Printf("Could not initialize smtp client: %s\n", err.Error())
		return nil, err
	}
	return c, nil
}

type Attachment struct {
	Name    string
	Content []byte
}

type SendMailInput struct {
	From        string
	FromName    string
	To          []string
	Cc          []string
	Bcc         []string
	ReplyTo     string
	Subject     string
	Body        string
	Html        bool
	Attachments []Attachment
}

func NewMailMessage(inputParams *SendMailInput) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(inputParams.FromName, inputParams.From); err != nil {
		log.Printf("Failed to set From address: %s\n", err.Error())
		return nil, err
	}
	if err := msg.To(inputParams.To...); err != nil {
		log.Printf("Failed to set To address: %s\n", err.Error())
		return nil, err
	}
	if inputParams.ReplyTo != "" {
		if err := msg.ReplyTo(inputParams.ReplyTo); err != nil {
			log.Printf("Failed to set Reply-To address: %s\n", err.Error())
		}
	}
	if len(inputParams.Cc) > 0 {
		if err := msg.Cc(inputParams.Cc...); err != nil {
			log.Printf("Failed to set Cc address: %s\n", err.Error())
		}
	}
	if len(inputParams.Bcc) > 0 {
		if err := msg.Bcc(inputParams.Bcc...); err != nil {
			log.Printf("Failed to set Bcc address: %s\n", err.Error())
		}
	}
	msg.Subject(inputParams.Subject)
	if inputParams.Html {
		msg.SetBodyString(mail.TypeTextHTML, inputParams.Body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, inputParams.Body)
	}
	for _, a := range inputParams.Attachments {
		if err := msg.AttachReader(a.Name, bytes.NewReader(a.Content)); err != nil {
			log.Printf("Failed to attach %s: %s\n", a.Name, err.Error())
			return nil, err
		}
	}
	return msg, nil
}

func SendMail(inputParams *SendMailInput) error {
	msg, err := NewMailMessage(inputParams)
	if err != nil {
		return err
	}
	c, err := GetSMTPClient()
	if err != nil {
		return err
	}
	if err := c.DialAndSend(msg); err != nil {
		return err
	}
	return nil
}
