package musicdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// InvoicesByCustomer lists a customer's invoices, most recent first.
func (d *DB) InvoicesByCustomer(ctx context.Context, customerID string) (string, error) {
	id, err := strconv.Atoi(strings.TrimSpace(customerID))
	if err != nil {
		return fmt.Sprintf("Invalid customer id: %s", customerID), nil
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT InvoiceId, InvoiceDate, Total
		FROM Invoice
		WHERE CustomerId = ?
		ORDER BY InvoiceDate DESC`,
		id)
	if err != nil {
		return "", fmt.Errorf("invoices by customer: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var invoiceID int
		var date string
		var total float64
		if err := rows.Scan(&invoiceID, &date, &total); err != nil {
			return "", fmt.Errorf("scan invoice row: %w", err)
		}
		fmt.Fprintf(&b, "Invoice: %d | Date: %s | Total: %.2f\n", invoiceID, date, total)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if b.Len() == 0 {
		return fmt.Sprintf("No invoices found for customer %s", customerID), nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// InvoicesByUnitPrice lists a customer's invoices ordered by line unit
// price, highest first.
func (d *DB) InvoicesByUnitPrice(ctx context.Context, customerID string) (string, error) {
	id, err := strconv.Atoi(strings.TrimSpace(customerID))
	if err != nil {
		return fmt.Sprintf("Invalid customer id: %s", customerID), nil
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT Invoice.InvoiceId, Invoice.InvoiceDate, Invoice.Total, InvoiceLine.UnitPrice
		FROM Invoice
		JOIN InvoiceLine ON Invoice.InvoiceId = InvoiceLine.InvoiceId
		WHERE Invoice.CustomerId = ?
		ORDER BY InvoiceLine.UnitPrice DESC`,
		id)
	if err != nil {
		return "", fmt.Errorf("invoices by unit price: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var invoiceID int
		var date string
		var total, unitPrice float64
		if err := rows.Scan(&invoiceID, &date, &total, &unitPrice); err != nil {
			return "", fmt.Errorf("scan invoice line row: %w", err)
		}
		fmt.Fprintf(&b, "Invoice: %d | Date: %s | Total: %.2f | UnitPrice: %.2f\n",
			invoiceID, date, total, unitPrice)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if b.Len() == 0 {
		return fmt.Sprintf("No invoices found for customer %s", customerID), nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// SupportRepForInvoice returns the employee assigned to the customer that
// owns the given invoice.
func (d *DB) SupportRepForInvoice(ctx context.Context, invoiceID, customerID string) (string, error) {
	inv, err := strconv.Atoi(strings.TrimSpace(invoiceID))
	if err != nil {
		return fmt.Sprintf("Invalid invoice id: %s", invoiceID), nil
	}
	cust, err := strconv.Atoi(strings.TrimSpace(customerID))
	if err != nil {
		return fmt.Sprintf("Invalid customer id: %s", customerID), nil
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT Employee.FirstName, Employee.Title, Employee.Email
		FROM Employee
		JOIN Customer ON Customer.SupportRepId = Employee.EmployeeId
		JOIN Invoice ON Invoice.CustomerId = Customer.CustomerId
		WHERE Invoice.InvoiceId = ? AND Invoice.CustomerId = ?`,
		inv, cust)
	if err != nil {
		return "", fmt.Errorf("support rep for invoice: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var first, title, email string
		if err := rows.Scan(&first, &title, &email); err != nil {
			return "", fmt.Errorf("scan employee row: %w", err)
		}
		fmt.Fprintf(&b, "Employee: %s | Title: %s | Email: %s\n", first, title, email)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if b.Len() == 0 {
		return fmt.Sprintf("No employee found for invoice ID %s and customer ID %s.", invoiceID, customerID), nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
