// internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"fmt"
	"sort"
	"strings"

	orderdom "storefront/internal/domain/order"
)

// EmailClient abstracts the concrete mail transport (SendGrid, SMTP, ...).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// OrderMailer sends the order confirmation mail after checkout. Backs
// usecase.OrderConfirmationSender; the usecase treats failures as
// best-effort, so this adapter only reports them.
type OrderMailer struct {
	client      EmailClient
	fromAddress string
	siteBaseURL string // e.g. "https://shop.example.com"
}

func NewOrderMailer(client EmailClient, fromAddress, siteBaseURL string) *OrderMailer {
	return &OrderMailer{
		client:      client,
		fromAddress: fromAddress,
		siteBaseURL: strings.TrimRight(siteBaseURL, "/"),
	}
}

func (m *OrderMailer) SendOrderConfirmation(ctx context.Context, toEmail string, o orderdom.Order) error {
	subject := fmt.Sprintf("Your order %s is confirmed", o.ID)
	return m.client.Send(ctx, m.fromAddress, toEmail, subject, m.buildBody(o))
}

func (m *OrderMailer) buildBody(o orderdom.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Thank you for your order.\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", o.ID)
	fmt.Fprintf(&b, "Placed:   %s\n\n", o.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"))

	total := 0
	fmt.Fprintf(&b, "Items:\n")
	for _, it := range o.Items {
		line := fmt.Sprintf("  - %s x%d  %d JPY", it.ProductID, it.Qty, it.Price*it.Qty)
		if len(it.SelectedOptions) > 0 {
			line += "  (" + formatOptions(it.SelectedOptions) + ")"
		}
		fmt.Fprintln(&b, line)
		total += it.Price * it.Qty
	}
	fmt.Fprintf(&b, "\nTotal: %d JPY\n\n", total)

	s := o.ShippingSnapshot
	fmt.Fprintf(&b, "Shipping to:\n  %s %s %s %s %s\n", s.ZipCode, s.State, s.City, s.Street, s.Street2)

	if m.siteBaseURL != "" {
		fmt.Fprintf(&b, "\nTrack your order: %s/orders/%s\n", m.siteBaseURL, o.ID)
	}

	return b.String()
}

func formatOptions(opts map[string]string) string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+opts[k])
	}
	return strings.Join(parts, ", ")
}
