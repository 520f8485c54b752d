// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Email represents an outbound email
type Email struct {
	To          []string
	Subject     string
	HTMLContent string
}

// receiptItem is one order line rendered on the receipt
type receiptItem struct {
	Name  string
	Qty   int
	Price string
}

type receiptData struct {
	StoreName     string
	StoreURL      string
	UserName      string
	OrderNumber   string
	OrderDate     string
	Items         []receiptItem
	ItemsPrice    string
	ShippingPrice string
	TaxPrice      string
	TotalPrice    string
	Year          int
}

// EmailService sends transactional email
type EmailService struct {
	config      *config.Config
	client      *http.Client
	receiptTmpl *template.Template
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		receiptTmpl: template.Must(template.New("order_receipt").Parse(orderReceiptTemplate)),
	}
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	switch s.config.External.Email.Provider {
	case "smtp":
		return s.sendSMTPEmail(email)
	case "resend":
		return s.sendResendEmail(ctx, email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.External.Email.Provider)
	}
}

// SendOrderReceiptEmail sends the purchase receipt after an order is paid
func (s *EmailService) SendOrderReceiptEmail(ctx context.Context, ord *order.Order) error {
	if ord.User == nil {
		return fmt.Errorf("order %d has no customer loaded", ord.ID)
	}

	data := receiptData{
		StoreName:     s.config.App.StoreName,
		StoreURL:      s.config.App.StoreURL,
		UserName:      ord.User.GetDisplayName(),
		OrderNumber:   ord.OrderNumber,
		OrderDate:     ord.CreatedAt.Format("January 2, 2006"),
		ItemsPrice:    ord.ItemsPrice.String(),
		ShippingPrice: ord.ShippingPrice.String(),
		TaxPrice:      ord.TaxPrice.String(),
		TotalPrice:    ord.TotalPrice.String(),
		Year:          time.Now().Year(),
	}
	for _, item := range ord.Items {
		data.Items = append(data.Items, receiptItem{
			Name:  item.Name,
			Qty:   item.Qty,
			Price: item.Price.String(),
		})
	}

	var buf bytes.Buffer
	if err := s.receiptTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render receipt template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{ord.User.Email},
		Subject:     fmt.Sprintf("Order Confirmation %s", ord.OrderNumber),
		HTMLContent: buf.String(),
	})
}

const orderReceiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.StoreName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">{{.StoreName}}</h1>
        <p>Hello {{.UserName}},</p>
        <p>Thank you for your purchase. Here is your receipt for order <strong>{{.OrderNumber}}</strong>, placed on {{.OrderDate}}.</p>
        <table style="width: 100%; border-collapse: collapse;">
            <tr style="text-align: left; border-bottom: 1px solid #ddd;">
                <th style="padding: 8px;">Item</th>
                <th style="padding: 8px;">Qty</th>
                <th style="padding: 8px;">Price</th>
            </tr>
            {{range .Items}}
            <tr style="border-bottom: 1px solid #eee;">
                <td style="padding: 8px;">{{.Name}}</td>
                <td style="padding: 8px;">{{.Qty}}</td>
                <td style="padding: 8px;">${{.Price}}</td>
            </tr>
            {{end}}
        </table>
        <p style="margin-top: 16px;">
            Items: ${{.ItemsPrice}}<br>
            Shipping: ${{.ShippingPrice}}<br>
            Tax: ${{.TaxPrice}}<br>
            <strong>Total: ${{.TotalPrice}}</strong>
        </p>
        <p><a href="{{.StoreURL}}/order/{{.OrderNumber}}">View your order</a></p>
        <hr>
        <p style="font-size: 12px; color: #666;">
            © {{.Year}} {{.StoreName}}. All rights reserved.
        </p>
    </div>
</body>
</html>`
