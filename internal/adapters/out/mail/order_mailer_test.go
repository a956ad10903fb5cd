// internal/adapters/out/mail/order_mailer_test.go
package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdom "storefront/internal/domain/order"
)

type recordingClient struct {
	from, to, subject, body string
	err                     error
}

func (c *recordingClient) Send(ctx context.Context, from, to, subject, body string) error {
	c.from, c.to, c.subject, c.body = from, to, subject, body
	return c.err
}

func TestSendOrderConfirmation(t *testing.T) {
	o, err := orderdom.New("o-1", "user-1", "av-1", "av-1",
		orderdom.ShippingSnapshot{ZipCode: "150-0001", State: "Tokyo", City: "Shibuya", Street: "1-2-3", Country: "JP"},
		[]orderdom.OrderItemSnapshot{
			{ProductID: "p-1", SelectedOptions: map[string]string{"size": "L", "color": "black"}, Qty: 2, Price: 4800},
			{ProductID: "p-2", Qty: 1, Price: 800},
		},
		time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	client := &recordingClient{}
	m := NewOrderMailer(client, "no-reply@shop.example.com", "https://shop.example.com/")

	require.NoError(t, m.SendOrderConfirmation(context.Background(), "buyer@example.com", o))

	assert.Equal(t, "no-reply@shop.example.com", client.from)
	assert.Equal(t, "buyer@example.com", client.to)
	assert.Contains(t, client.subject, "o-1")

	assert.Contains(t, client.body, "p-1 x2  9600 JPY")
	assert.Contains(t, client.body, "color: black, size: L")
	assert.Contains(t, client.body, "Total: 10400 JPY")
	assert.Contains(t, client.body, "https://shop.example.com/orders/o-1")
}
