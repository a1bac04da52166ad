package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oqtepa/fastfood-storefront/internal/model"
)

// FormatPrice renders an amount in so'm with space thousands
// separators, e.g. 25000 -> "25 000 so'm".
func FormatPrice(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(d)
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	return out + " so'm"
}

func coord(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func mapsQuery(loc *model.GeoPoint) string {
	return fmt.Sprintf("https://maps.google.com/?q=%s,%s",
		strconv.FormatFloat(loc.Lat, 'f', -1, 64),
		strconv.FormatFloat(loc.Lng, 'f', -1, 64))
}

// FormatMessage renders an order into the Markdown message posted to
// the restaurant's chat: header, customer block, optional location
// block with map links, enumerated items, totals, the follow-up
// checklist, and quick-action links.
func FormatMessage(o model.Order) string {
	var b strings.Builder

	b.WriteString("Buyurtma tafsilotlari:\n\n")
	fmt.Fprintf(&b, "🍔 *NEW FAST FOOD ORDER* #%s\n\n", o.ID)

	b.WriteString("👤 *Customer Details:*\n")
	fmt.Fprintf(&b, "• Name: %s\n", o.Customer.Name)
	fmt.Fprintf(&b, "• Phone: %s\n", o.Customer.Phone)
	fmt.Fprintf(&b, "• Address: %s\n\n", o.Customer.Address)

	if loc := o.Customer.Location; loc != nil {
		b.WriteString("📍 *Location Details:*\n")
		fmt.Fprintf(&b, "• Current Location: %s, %s\n", coord(loc.Lat), coord(loc.Lng))
		fmt.Fprintf(&b, "• Coordinates: `%s, %s`\n", coord(loc.Lat), coord(loc.Lng))
		fmt.Fprintf(&b, "• [Open in Google Maps](%s)\n", mapsQuery(loc))
		fmt.Fprintf(&b, "• [Open in Yandex Maps](https://yandex.com/maps/?ll=%s,%s&z=16)\n\n",
			strconv.FormatFloat(loc.Lng, 'f', -1, 64),
			strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	}

	b.WriteString("🛒 *Order Items:*\n")
	for i, item := range o.Items {
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, item.Name.In(model.LangUZ))
		fmt.Fprintf(&b, "   └ Qty: %d × %s = %s\n",
			item.Quantity, FormatPrice(item.Price), FormatPrice(item.LineTotal()))
		if item.Customization != "" {
			fmt.Fprintf(&b, "   └ 📝 *Special Requirements:* %s\n", item.Customization)
		}
	}

	fmt.Fprintf(&b, "\n💰 *TOTAL: %s*\n", FormatPrice(o.Total))
	b.WriteString("💵 *Payment Method: CASH ONLY*\n")
	fmt.Fprintf(&b, "⏰ *Order Time:* %s\n\n", o.Timestamp.Format("2006-01-02, 15:04:05"))

	b.WriteString("📋 *Action Required:*\n")
	b.WriteString("1. ✅ Confirm order with customer\n")
	b.WriteString("2. 🍳 Prepare food items\n")
	b.WriteString("3. 🚗 Arrange delivery\n")
	b.WriteString("4. 📞 Call customer before delivery\n\n")

	b.WriteString("⚡ *Quick Actions:*\n")
	fmt.Fprintf(&b, "• Call: [%s](tel:%s)\n", o.Customer.Phone, o.Customer.Phone)
	if loc := o.Customer.Location; loc != nil {
		fmt.Fprintf(&b, "• Navigate: [Google Maps](%s)", mapsQuery(loc))
	}

	return b.String()
}
