package printing

import (
	"bytes"
	"html/template"
)

// Party is one address block on the invoice.
type Party struct {
	Name    string
	Lines   []string
	Phone   string
	GSTIN   string
	Contact string
}

type InvoiceLine struct {
	Description string
	Rate        string
	Quantity    int
	Amount      string
}

// Invoice is the view model of a tax invoice; amounts are preformatted.
type Invoice struct {
	InvoiceID    string
	Date         string
	Seller       Party
	BillTo       Party
	Lines        []InvoiceLine
	Subtotal     string
	Discount     string
	TaxableValue string
	CGSTRate     string
	CGST         string
	SGSTRate     string
	SGST         string
	Total        string
	PaymentRef   string
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(invoiceHTML))

// RenderInvoiceHTML fills the tax invoice template.
func RenderInvoiceHTML(inv *Invoice) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, inv); err != nil {
		return "", NewRenderError(ErrCodeTemplate, "execute invoice template", err)
	}
	return buf.String(), nil
}

const invoiceHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.InvoiceID}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 11pt; color: #222; margin: 0; }
  .header { background: #1a237e; color: #fff; display: flex; justify-content: space-between; padding: 18px 22px; font-size: 20pt; }
  .meta { text-align: right; margin: 14px 0; line-height: 1.5; }
  .parties { display: flex; justify-content: space-between; margin: 10px 0 20px; line-height: 1.5; }
  .parties .to { text-align: right; }
  table { width: 100%; border-collapse: collapse; }
  table.items th { background: #534bae; color: #fff; padding: 10px; text-align: center; }
  table.items th:first-child, table.items td:first-child { text-align: left; }
  table.items td { padding: 10px; text-align: center; }
  table.items tr:nth-child(even) td { background: #f2f2f7; }
  table.totals { margin-top: 8px; }
  table.totals td { padding: 5px 10px; text-align: right; }
  table.totals td.label { font-weight: bold; width: 75%; }
  table.totals tr.total td { font-weight: bold; border-top: 1px solid #999; }
  .footer { margin-top: 28px; font-size: 9pt; color: #666; }
</style>
</head>
<body>
<div class="header"><span>{{.Seller.Name}}</span><span>TAX INVOICE</span></div>
<div class="meta">
  Invoice No: {{.InvoiceID}}<br>
  Date: {{.Date}}<br>
  GSTIN: {{.Seller.GSTIN}}
</div>
<div class="parties">
  <div class="from">
    <strong>From:</strong><br>
    {{.Seller.Name}}<br>
    {{range .Seller.Lines}}{{.}}<br>{{end}}
    {{if .Seller.Phone}}Phone: {{.Seller.Phone}}{{end}}
  </div>
  <div class="to">
    <strong>Bill To:</strong><br>
    {{.BillTo.Name}}<br>
    {{range .BillTo.Lines}}{{.}}<br>{{end}}
    {{if .BillTo.GSTIN}}GSTIN: {{.BillTo.GSTIN}}{{end}}
  </div>
</div>
<table class="items">
  <thead><tr><th>Description</th><th>Rate</th><th>Qty</th><th>Amount</th></tr></thead>
  <tbody>
  {{range .Lines}}<tr><td>{{.Description}}</td><td>{{.Rate}}</td><td>{{.Quantity}}</td><td>{{.Amount}}</td></tr>
  {{end}}</tbody>
</table>
<table class="totals">
  <tr><td class="label">Subtotal:</td><td>{{.Subtotal}}</td></tr>
  <tr><td class="label">Discount:</td><td>{{.Discount}}</td></tr>
  <tr><td class="label">Taxable Value:</td><td>{{.TaxableValue}}</td></tr>
  <tr><td class="label">CGST ({{.CGSTRate}}):</td><td>{{.CGST}}</td></tr>
  <tr><td class="label">SGST ({{.SGSTRate}}):</td><td>{{.SGST}}</td></tr>
  <tr class="total"><td class="label">Total:</td><td>{{.Total}}</td></tr>
</table>
{{if .PaymentRef}}<div class="footer">Payment reference: {{.PaymentRef}}</div>{{end}}
</body>
</html>
`
