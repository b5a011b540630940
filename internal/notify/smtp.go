package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"hotel-frontdesk/pkg/logger"
)

// SMTPNotifier delivers plain-text confirmation mail over SMTP.
// Failures are logged and reported as false; they never propagate.
type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(host string, port int, username, password, from string) *SMTPNotifier {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPNotifier{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
		send: smtp.SendMail,
	}
}

func (n *SMTPNotifier) SendBookingConfirmation(ctx context.Context, d BookingDetails) bool {
	log := logger.From(ctx)
	if strings.TrimSpace(d.Email) == "" {
		return false
	}

	msg := buildConfirmationMessage(n.from, d)
	if err := n.send(n.addr, n.auth, n.from, []string{d.Email}, msg); err != nil {
		log.Warn("confirmation email failed", "reservation_id", d.ReservationID, "err", err)
		return false
	}
	log.Info("confirmation email sent", "reservation_id", d.ReservationID)
	return true
}

const mailDateLayout = "Monday, January 2, 2006"

func buildConfirmationMessage(from string, d BookingDetails) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", d.Email)
	fmt.Fprintf(&b, "Subject: Your reservation %s is confirmed\r\n", d.ReservationID)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")

	fmt.Fprintf(&b, "Dear %s,\r\n\r\n", d.GuestName)
	b.WriteString("Thank you for booking with us. Your reservation details:\r\n\r\n")
	fmt.Fprintf(&b, "  Confirmation number: %s\r\n", d.ReservationID)
	fmt.Fprintf(&b, "  Room: %s for %d guest(s)\r\n", d.RoomType, d.Guests)
	fmt.Fprintf(&b, "  Check-in: %s\r\n", d.CheckIn.Format(mailDateLayout))
	fmt.Fprintf(&b, "  Check-out: %s\r\n", d.CheckOut.Format(mailDateLayout))
	fmt.Fprintf(&b, "  Rate: $%d per night, %d night(s)\r\n\r\n", d.NightlyRate, d.Nights)
	b.WriteString("We look forward to welcoming you.\r\n")
	return []byte(b.String())
}
