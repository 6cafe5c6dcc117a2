// Package receipt renders orders as plain text for the kitchen printer and
// for the pre-filled messaging link.
package receipt

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"pizzaria/internal/models"

	"github.com/shopspring/decimal"
)

// Width is the printable column count of an 80mm thermal printer.
const Width = 42

var deliveryLabels = map[models.DeliveryType]string{
	models.DeliveryHome:   "Delivery",
	models.DeliveryPickup: "Pickup",
}

var paymentLabels = map[models.PaymentMethod]string{
	models.PaymentPix:        "PIX",
	models.PaymentCreditCard: "Credit card",
	models.PaymentDebitCard:  "Debit card",
	models.PaymentCash:       "Cash",
}

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

// ShortID is the order reference shown to customers and staff.
func ShortID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "#" + strings.ToUpper(id)
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= Width {
		return s
	}
	return strings.Repeat(" ", (Width-n)/2) + s
}

// row prints label on the left and value flush right.
func row(label, value string) string {
	gap := Width - utf8.RuneCountInString(label) - utf8.RuneCountInString(value)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + value
}

// wrap breaks s into lines of at most width runes on word boundaries.
func wrap(s string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && utf8.RuneCountInString(cur.String())+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// Format renders the full kitchen receipt.
func Format(order *models.Order, settings *models.StoreSettings) string {
	rule := strings.Repeat("-", Width)
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	if settings != nil && settings.StoreName != "" {
		line(center(strings.ToUpper(settings.StoreName)))
	}
	line(center("ORDER " + ShortID(order.ID)))
	line(center(order.CreatedAt.Format("02/01/2006 15:04")))
	line(rule)

	for _, item := range order.Items {
		unit := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		line(row(fmt.Sprintf("%dx %s", item.Quantity, item.Name), money(unit)))
		for _, f := range item.Flavors {
			for _, l := range wrap(f, Width-4) {
				line("    " + l)
			}
		}
		if item.SizeInfo != "" {
			for _, l := range wrap(item.SizeInfo, Width-4) {
				line("    " + l)
			}
		}
	}
	line(rule)

	line(row("Subtotal", money(order.Subtotal)))
	if order.Discount.IsPositive() {
		label := "Discount"
		if order.CouponCode != "" {
			label += " (" + order.CouponCode + ")"
		}
		line(row(label, "-"+money(order.Discount)))
	}
	if order.DeliveryType == models.DeliveryHome {
		fee := money(order.DeliveryFee)
		if order.DeliveryFee.IsZero() {
			fee = "FREE"
		}
		line(row("Delivery fee", fee))
	}
	line(row("TOTAL", money(order.Total)))
	line(rule)

	line("Customer: " + order.CustomerName)
	line("Phone: " + order.CustomerPhone)
	line("Type: " + deliveryLabels[order.DeliveryType])
	if order.DeliveryType == models.DeliveryHome && order.Address != "" {
		for i, l := range wrap(order.Address, Width-9) {
			prefix := "Address: "
			if i > 0 {
				prefix = strings.Repeat(" ", 9)
			}
			line(prefix + l)
		}
	}
	payment := paymentLabels[order.PaymentMethod] + " (" + string(order.PaymentStatus) + ")"
	line("Payment: " + payment)
	if order.PaymentMethod == models.PaymentCash && order.ChangeFor.GreaterThan(order.Total) {
		line("Change for: " + money(order.ChangeFor))
	}
	if order.Notes != "" {
		line(rule)
		for _, l := range wrap("Notes: "+order.Notes, Width) {
			line(l)
		}
	}
	return b.String()
}

// Summary is the short order text sent through the messaging app.
func Summary(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s\n", ShortID(order.ID))
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%dx %s\n", item.Quantity, item.Name)
		for _, f := range item.Flavors {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}
	if order.Discount.IsPositive() {
		fmt.Fprintf(&b, "Discount: -%s\n", money(order.Discount))
	}
	if order.DeliveryFee.IsPositive() {
		fmt.Fprintf(&b, "Delivery fee: %s\n", money(order.DeliveryFee))
	}
	fmt.Fprintf(&b, "Total: %s\n", money(order.Total))
	fmt.Fprintf(&b, "Name: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "%s", deliveryLabels[order.DeliveryType])
	if order.DeliveryType == models.DeliveryHome && order.Address != "" {
		fmt.Fprintf(&b, ": %s", order.Address)
	}
	fmt.Fprintf(&b, "\nPayment: %s", paymentLabels[order.PaymentMethod])
	return b.String()
}

// WhatsAppLink builds the wa.me deep link with text pre-filled. Non-digit
// characters in number are dropped; an empty number yields "".
func WhatsAppLink(number, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
}
