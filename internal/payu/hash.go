package payu

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// RequestHash computes the v1 checkout hash:
// sha512(key|txnid|amount|productinfo|firstname|email|udf1..udf5||||||salt).
// The five empty segments after udf5 are the reserved udf6..udf10 slots.
func RequestHash(r Request, salt string) string {
	parts := []string{
		r.Key,
		r.TxnID,
		r.Amount,
		r.ProductInfo,
		r.FirstName,
		r.Email,
		r.UDF[0], r.UDF[1], r.UDF[2], r.UDF[3], r.UDF[4],
		"", "", "", "", "",
		salt,
	}
	return hexSHA512(strings.Join(parts, "|"))
}

// VerifyResponseHash checks the reverse hash PayU attaches to callbacks:
// sha512(salt|status||||||udf5..udf1|email|firstname|productinfo|amount|txnid|key).
// The five empty segments after status mirror the reserved udf10..udf6 slots.
// Returns false when the hash field is absent or does not match.
func VerifyResponseHash(fields map[string]string, salt string) bool {
	got := fields["hash"]
	if got == "" {
		return false
	}

	parts := []string{
		salt,
		fields["status"],
		"", "", "", "", "",
		fields["udf5"], fields["udf4"], fields["udf3"], fields["udf2"], fields["udf1"],
		fields["email"],
		fields["firstname"],
		fields["productinfo"],
		fields["amount"],
		fields["txnid"],
		fields["key"],
	}
	want := hexSHA512(strings.Join(parts, "|"))
	return strings.EqualFold(got, want)
}

func hexSHA512(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
