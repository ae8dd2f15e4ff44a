package http

import "html/template"

var resultTemplate = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}} - PhotoFramix</title></head>
<body>
  <h1>{{.Heading}}</h1>
  {{if .TxnID}}<p>Transaction: <strong>{{.TxnID}}</strong></p>{{end}}
  {{if .Amount}}<p>Amount: <strong>{{.Amount}}</strong></p>{{end}}
  {{if .Mode}}<p>Payment mode: {{.Mode}}</p>{{end}}
  {{if .MihpayID}}<p>Gateway reference: {{.MihpayID}}</p>{{end}}
  {{if .Message}}<p>{{.Message}}</p>{{end}}
  {{if not .HasDetails}}<p>No payment details are available for this visit.</p>{{end}}
  <p><a href="/cart">Back to the shop</a></p>
</body>
</html>
`))

// resultView tolerates total absence of data: every field is optional and the
// page renders either way.
type resultView struct {
	Title      string
	Heading    string
	TxnID      string
	Amount     string
	Mode       string
	MihpayID   string
	Message    string
	HasDetails bool
}

var redirectFormTemplate = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html>
<head><title>Redirecting to payment - PhotoFramix</title></head>
<body onload="document.forms[0].submit()">
  <p>Redirecting you to the payment page&hellip;</p>
  <form method="post" action="{{.Action}}">
    {{range $name, $values := .Fields}}{{range $values}}<input type="hidden" name="{{$name}}" value="{{.}}">
    {{end}}{{end}}
    <noscript><button type="submit">Continue to payment</button></noscript>
  </form>
</body>
</html>
`))

var cartPageTemplate = template.Must(template.New("cart").Parse(`<!DOCTYPE html>
<html>
<head><title>Your cart - PhotoFramix</title></head>
<body>
  <h1>Your cart</h1>
  {{if .Items}}
  <table>
    <tr><th>Frame</th><th>Size</th><th>Qty</th><th>Subtotal</th></tr>
    {{range .Items}}
    <tr><td>{{.Name}}</td><td>{{.Size}}</td><td>{{.Quantity}}</td><td>{{.Subtotal}}</td></tr>
    {{end}}
  </table>
  <p>Total: <strong>{{.Total}}</strong></p>
  {{else}}
  <p>Your cart is empty.</p>
  {{end}}
</body>
</html>
`))

type cartPageView struct {
	Items []cartPageItem
	Total string
}

type cartPageItem struct {
	Name     string
	Size     string
	Quantity int
	Subtotal string
}
