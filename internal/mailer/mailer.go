package mailer

import "embed"

const (
	FromName               = "HBnB"
	maxRetires             = 3
	BookingCreatedTemplate = "booking_created.tmpl"
	BookingStatusTemplate  = "booking_status.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
