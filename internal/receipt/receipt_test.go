package receipt

import (
	"strings"
	"testing"
	"time"

	"pizzaria/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleOrder() *models.Order {
	return &models.Order{
		ID:            "3f2a9c1e-0000-4000-8000-000000000000",
		CustomerName:  "Ana Souza",
		CustomerPhone: "11999990000",
		DeliveryType:  models.DeliveryHome,
		Address:       "Rua das Flores 123, apto 45, Jardim Paulista",
		PaymentMethod: models.PaymentCash,
		PaymentStatus: models.PaymentPending,
		ChangeFor:     decimal.NewFromInt(100),
		CouponCode:    "PIZZA10",
		Subtotal:      decimal.NewFromInt(65),
		Discount:      decimal.RequireFromString("6.5"),
		DeliveryFee:   decimal.NewFromInt(8),
		Total:         decimal.RequireFromString("66.5"),
		Status:        models.StatusPending,
		CreatedAt:     time.Date(2024, 5, 10, 19, 30, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{Type: models.ItemPizza, Name: "Pizza G - Calabresa / Camarao", Price: decimal.NewFromInt(65), Quantity: 1, Flavors: []string{"Calabresa", "Camarao"}, SizeInfo: "Size G"},
		},
	}
}

func TestFormat(t *testing.T) {
	out := Format(sampleOrder(), &models.StoreSettings{StoreName: "Bella Napoli"})

	assert.Contains(t, out, "BELLA NAPOLI")
	assert.Contains(t, out, "ORDER #3F2A9C1E")
	assert.Contains(t, out, "10/05/2024 19:30")
	assert.Contains(t, out, "1x Pizza G - Calabresa / Camarao")
	assert.Contains(t, out, "    Camarao")
	assert.Contains(t, out, "Discount (PIZZA10)")
	assert.Contains(t, out, "-R$ 6.50")
	assert.Contains(t, out, "R$ 66.50")
	assert.Contains(t, out, "Change for: R$ 100.00")
	assert.Contains(t, out, "Payment: Cash (pending)")

	for _, l := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(l)), Width, "line too wide: %q", l)
	}
}

func TestFormat_PickupOmitsFeeAndAddress(t *testing.T) {
	o := sampleOrder()
	o.DeliveryType = models.DeliveryPickup
	o.DeliveryFee = decimal.Zero
	out := Format(o, nil)

	assert.NotContains(t, out, "Delivery fee")
	assert.NotContains(t, out, "Address:")
	assert.Contains(t, out, "Type: Pickup")
}

func TestSummary(t *testing.T) {
	out := Summary(sampleOrder())
	assert.True(t, strings.HasPrefix(out, "Order #3F2A9C1E\n"))
	assert.Contains(t, out, "Total: R$ 66.50")
	assert.Contains(t, out, "Delivery: Rua das Flores")
}

func TestWhatsAppLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/5511999990000?text=Hello+there%21", WhatsAppLink("+55 (11) 99999-0000", "Hello there!"))
	assert.Empty(t, WhatsAppLink("", "hi"))
}
