package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"restaurant-ops/internal/domain"
)

const (
	placeholderCustomer   = "Unknown Customer"
	placeholderItem       = "Unknown Item"
	placeholderOrderStaff = "Not Assigned"
	placeholderTableStaff = "Not assigned"

	lowStockSubject   = "Low Stock Alert"
	lowStockSeparator = "---------------------------\n"
)

type OrderLine struct {
	Item     Resolved[domain.MenuItem]
	Quantity int
}

type OrderView struct {
	Order    domain.Order
	Customer Resolved[domain.User]
	Lines    []OrderLine
	Staff    Resolved[domain.User]
}

type TableView struct {
	Table      domain.Table
	StaffEmail Resolved[string]
	At         time.Time
}

func userName(u domain.User) string     { return u.FullName() }
func itemName(m domain.MenuItem) string { return m.Name }
func asIs(s string) string              { return s }

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func ComposeOrderMessage(v OrderView) (subject, body string) {
	id := v.Order.ID.Hex()
	subject = "New Order Received: " + id

	var b strings.Builder
	b.WriteString("A new order has been placed.\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", id)
	fmt.Fprintf(&b, "Customer: %s\n", v.Customer.Render(userName, placeholderCustomer))
	b.WriteString("Items:\n")
	for _, l := range v.Lines {
		fmt.Fprintf(&b, "- %s x%d\n", l.Item.Render(itemName, placeholderItem), l.Quantity)
	}
	fmt.Fprintf(&b, "Total Price: %s\n", v.Order.TotalPrice.Display())
	fmt.Fprintf(&b, "Order Type: %s\n", v.Order.OrderType)
	fmt.Fprintf(&b, "Payment Method: %s\n", v.Order.PaymentMethod)
	fmt.Fprintf(&b, "Payment Status: %s\n", v.Order.PaymentStatus)
	fmt.Fprintf(&b, "Order Status: %s\n", v.Order.Status)
	fmt.Fprintf(&b, "Special Requests: %s\n", orDefault(v.Order.SpecialRequests, "None"))
	fmt.Fprintf(&b, "Assigned Staff: %s\n", v.Staff.Render(userName, placeholderOrderStaff))
	return subject, b.String()
}

func ComposeTableMessage(v TableView) (subject, body string) {
	subject = fmt.Sprintf("Table Update: Table %d", v.Table.TableNumber)

	var b strings.Builder
	b.WriteString("A table has been updated.\n\n")
	fmt.Fprintf(&b, "Table Number: %d\n", v.Table.TableNumber)
	fmt.Fprintf(&b, "Status: %s\n", v.Table.Status)
	fmt.Fprintf(&b, "Capacity: %d\n", v.Table.Capacity)
	fmt.Fprintf(&b, "Location: %s\n", v.Table.Location)
	fmt.Fprintf(&b, "Updated At: %s\n", v.At.Format(time.RFC3339))
	fmt.Fprintf(&b, "Assigned Staff: %s\n", v.StaffEmail.Render(asIs, placeholderTableStaff))
	return subject, b.String()
}

func formatQuantity(q float64) string { return strconv.FormatFloat(q, 'f', -1, 64) }

func ComposeLowStockMessage(items []domain.InventoryItem) (subject, body string) {
	var b strings.Builder
	b.WriteString("Hello,\n\nThe following items are running low on stock:\n\n")
	for i, it := range items {
		if i > 0 {
			b.WriteString(lowStockSeparator)
		}
		fmt.Fprintf(&b, "Ingredient: %s\n", it.Ingredient)
		fmt.Fprintf(&b, "Current Quantity: %s %s\n", formatQuantity(it.Quantity), it.Unit)
		fmt.Fprintf(&b, "Low Stock Threshold: %s %s\n\n", formatQuantity(it.LowStockThreshold), it.Unit)
		b.WriteString("Please restock this item as soon as possible.\n\n")
	}
	b.WriteString("Thank you for your prompt action.\n\nBest regards,\nInventory Management Team")
	return lowStockSubject, b.String()
}
