// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	StoreName     string
	StoreEmail    string
	StoreURL      string
	CustomerName  string
	Order         *order.Order
}

// GenerateInvoice generates a PDF invoice for an order
func (s *Service) GenerateInvoice(ord *order.Order) (*bytes.Buffer, error) {
	customerName := ""
	if ord.User != nil {
		customerName = ord.User.GetDisplayName()
	}

	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", ord.OrderNumber),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		StoreName:     s.config.App.StoreName,
		StoreEmail:    s.config.App.StoreEmail,
		StoreURL:      s.config.App.StoreURL,
		CustomerName:  customerName,
		Order:         ord,
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .header h1 { margin: 0; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th { text-align: left; border-bottom: 2px solid #333; padding: 8px; }
        td { border-bottom: 1px solid #eee; padding: 8px; }
        .totals { margin-top: 20px; text-align: right; }
        .totals .grand { font-size: 1.2em; font-weight: bold; }
        .address { margin-top: 20px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.StoreName}}</h1>
        <p>{{.StoreURL}} · {{.StoreEmail}}</p>
        <h2>Invoice {{.InvoiceNumber}}</h2>
        <p>Date: {{.InvoiceDate}}</p>
    </div>

    <div class="address">
        <strong>Bill to:</strong><br>
        {{.CustomerName}}<br>
        {{.Order.ShippingAddress.StreetAddress}}<br>
        {{.Order.ShippingAddress.City}}, {{.Order.ShippingAddress.PostalCode}}<br>
        {{.Order.ShippingAddress.Country}}
    </div>

    <table>
        <tr>
            <th>Item</th>
            <th>Qty</th>
            <th>Price</th>
        </tr>
        {{range .Order.Items}}
        <tr>
            <td>{{.Name}}</td>
            <td>{{.Qty}}</td>
            <td>${{.Price}}</td>
        </tr>
        {{end}}
    </table>

    <div class="totals">
        <p>Items: ${{.Order.ItemsPrice}}</p>
        <p>Shipping: ${{.Order.ShippingPrice}}</p>
        <p>Tax: ${{.Order.TaxPrice}}</p>
        <p class="grand">Total: ${{.Order.TotalPrice}}</p>
        <p>Payment method: {{.Order.PaymentMethod}}</p>
        {{if .Order.IsPaid}}<p>PAID</p>{{else}}<p>UNPAID</p>{{end}}
    </div>
</body>
</html>`
