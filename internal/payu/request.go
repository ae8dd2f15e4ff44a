// Package payu implements the PayU hosted-checkout contract: the outbound
// payment request with its SHA-512 hash, the inbound response hash check, and
// the verify_payment API client.
package payu

import (
	"net/url"
)

// Request carries every field the hosted payment page expects. The gateway
// rejects submissions whose hash does not match the field sequence, so this
// struct should only be filled through checkout code that also computes Hash.
type Request struct {
	Key         string
	TxnID       string
	Amount      string // formatted with two decimal places
	ProductInfo string
	FirstName   string
	Email       string
	Phone       string
	SuccessURL  string
	FailureURL  string
	UDF         [5]string
	Hash        string
}

// FormValues renders the request as the form fields to auto-submit to the
// hosted payment page.
func (r Request) FormValues() url.Values {
	v := url.Values{}
	v.Set("key", r.Key)
	v.Set("txnid", r.TxnID)
	v.Set("amount", r.Amount)
	v.Set("productinfo", r.ProductInfo)
	v.Set("firstname", r.FirstName)
	v.Set("email", r.Email)
	v.Set("phone", r.Phone)
	v.Set("surl", r.SuccessURL)
	v.Set("furl", r.FailureURL)
	for i, udf := range r.UDF {
		if udf != "" {
			v.Set(udfKey(i), udf)
		}
	}
	v.Set("hash", r.Hash)
	return v
}

func udfKey(i int) string {
	return "udf" + string(rune('1'+i))
}
