package mailer

import (
	"fmt"

	"github.com/TranHoa21/Mufilika/config"
	"github.com/TranHoa21/Mufilika/internal/domain"
	"github.com/TranHoa21/Mufilika/pkg/utils"
	"gopkg.in/gomail.v2"
)

type SMTPMailer struct {
	config *config.Config
}

func CreateSMTPMailer(config *config.Config) *SMTPMailer {
	return &SMTPMailer{
		config: config,
	}
}

func (m *SMTPMailer) SendBookingConfirmation(booking domain.Booking) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.SMTPConfig.Sender)
	msg.SetHeader("To", booking.Email)
	msg.SetHeader("Subject", "Your tour booking is confirmed")

	paidAt := ""
	if booking.PaymentTime != nil {
		paidAt = utils.ConvertDateTimeToHumanReadableFormat(*booking.PaymentTime)
	}

	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nWe received your payment of %.2f for booking %s.\nDeparture: %s\nPaid at: %s\n\nSee you soon!",
		booking.FullName, booking.TotalPrice, booking.ID, booking.DepartureDate, paidAt))

	return utils.SendEmail(msg, m.config.SMTPConfig.Sender, m.config.SMTPConfig.Password, m.config.SMTPConfig.Host, m.config.SMTPConfig.Port)
}
