package mailer

import "html/template"

type OTPData struct {
	AppName    string
	Code       string
	Purpose    string
	TTLMinutes int
}

type BookingData struct {
	AppName       string
	RecipientName string
	BookingID     string
	CounterPart   string
	ScheduledDate string
	Amount        string
	Link          string
}

var (
	OTPTemplate = template.Must(template.New("otp").Parse(`
<p>Your {{.AppName}} verification code for {{.Purpose}} is:</p>
<h2 style="letter-spacing:4px">{{.Code}}</h2>
<p>The code expires in {{.TTLMinutes}} minutes. If you did not request it, ignore this e-mail.</p>
`))

	BookingCreatedTemplate = template.Must(template.New("booking_created").Parse(`
<p>Hello {{.RecipientName}},</p>
<p>You have a new booking request from {{.CounterPart}} scheduled on {{.ScheduledDate}}.</p>
<p>Open <a href="{{.Link}}">{{.AppName}}</a> to review it and propose a price.</p>
`))

	PaymentReceiptTemplate = template.Must(template.New("payment_receipt").Parse(`
<p>Hello {{.RecipientName}},</p>
<p>We received your payment of {{.Amount}} for booking {{.BookingID}} with {{.CounterPart}}.</p>
<p>The service is scheduled on {{.ScheduledDate}}.</p>
`))

	ReviewInviteTemplate = template.Must(template.New("review_invite").Parse(`
<p>Hello {{.RecipientName}},</p>
<p>Your booking with {{.CounterPart}} is complete. Tell others how it went by leaving a review on
<a href="{{.Link}}">{{.AppName}}</a>.</p>
`))

	ReminderTemplate = template.Must(template.New("reminder").Parse(`
<p>Hello {{.RecipientName}},</p>
<p>This is a reminder that your booking with {{.CounterPart}} is scheduled on {{.ScheduledDate}}.</p>
`))
)
