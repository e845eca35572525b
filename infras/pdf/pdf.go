package pdf

//go:generate go run go.uber.org/mock/mockgen -source=./pdf.go -destination=./mocks/pdf_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"taskpal/infras/otel"
	"taskpal/shared/constant"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily  = "Helvetica"
	pageWidth   = 190.0
	lineHeight  = 7.0
	labelWidth  = 50.0
	dateLayout  = "January 2, 2006"
	stampLayout = "2006-01-02 15:04 MST"
)

type Party struct {
	Name  string
	Email string
	Phone string
}

type Agreement struct {
	AppName       string
	BookingID     string
	Client        Party
	Provider      Party
	ServiceType   string
	ScheduledDate time.Time
	Price         float64
	Currency      string
	Notes         string
	GeneratedAt   time.Time
}

type Renderer interface {
	RenderAgreement(ctx context.Context, agreement Agreement) ([]byte, error)
}

type rendererImpl struct {
	otel otel.Otel
}

func New(otel otel.Otel) Renderer {
	return &rendererImpl{otel: otel}
}

func (r *rendererImpl) RenderAgreement(ctx context.Context, agreement Agreement) (res []byte, err error) {
	_, scope := r.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".RenderAgreement")
	defer scope.End()
	defer scope.TraceIfError(err)

	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetTitle(tr(agreement.AppName+" Service Agreement"), false)
	doc.AddPage()

	doc.SetFont(fontFamily, "B", 16)
	doc.CellFormat(pageWidth, 10, tr(agreement.AppName+" Service Agreement"), "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont(fontFamily, "", 11)
	row := func(label, value string) {
		doc.SetFont(fontFamily, "B", 11)
		doc.CellFormat(labelWidth, lineHeight, tr(label), "", 0, "L", false, 0, "")
		doc.SetFont(fontFamily, "", 11)
		doc.MultiCell(pageWidth-labelWidth, lineHeight, tr(value), "", "L", false)
	}

	row("Booking reference", agreement.BookingID)
	row("Client", partyLine(agreement.Client))
	row("Service provider", partyLine(agreement.Provider))

	if agreement.ServiceType != "" {
		row("Service", agreement.ServiceType)
	}

	row("Scheduled date", agreement.ScheduledDate.Format(dateLayout))
	row("Agreed price", fmt.Sprintf("%s %.2f", agreement.Currency, agreement.Price))

	if agreement.Notes != "" {
		row("Task details", agreement.Notes)
	}

	doc.Ln(6)
	doc.SetFont(fontFamily, "", 10)
	doc.MultiCell(pageWidth, 6, tr(fmt.Sprintf(
		"Both parties have reviewed and accepted the price of %s %.2f for the task described above. "+
			"The client agrees to pay through the platform before the service is rendered and the provider "+
			"agrees to perform the task on the scheduled date.",
		agreement.Currency, agreement.Price)), "", "J", false)

	doc.Ln(8)
	doc.SetFont(fontFamily, "I", 10)
	doc.MultiCell(pageWidth, 6, tr("Electronically agreed by "+agreement.Client.Name+" (client)."), "", "L", false)
	doc.MultiCell(pageWidth, 6, tr("Electronically agreed by "+agreement.Provider.Name+" (service provider)."), "", "L", false)

	doc.Ln(4)
	doc.SetFont(fontFamily, "", 8)
	doc.CellFormat(pageWidth, 5, tr("Generated on "+agreement.GeneratedAt.Format(stampLayout)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err = doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render agreement pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func partyLine(party Party) string {
	line := party.Name

	if party.Email != "" {
		line += " <" + party.Email + ">"
	}

	if party.Phone != "" {
		line += ", " + party.Phone
	}

	return line
}
