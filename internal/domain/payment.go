package domain

// OutcomeKind tags a gateway callback at the boundary. Relay code switches
// exhaustively over the three kinds instead of threading an untyped field
// bag through the handlers.
type OutcomeKind string

const (
	OutcomeSuccess     OutcomeKind = "success"
	OutcomeFailure     OutcomeKind = "failure"
	OutcomeUnparseable OutcomeKind = "unparseable"
)

func (k OutcomeKind) String() string {
	return string(k)
}

// Field names PayU is known to send back. The callback receiver relays every
// field it gets verbatim; these constants only exist for the places that need
// to read a specific one (reconciliation, result summaries).
const (
	FieldTxnID        = "txnid"
	FieldAmount       = "amount"
	FieldStatus       = "status"
	FieldMihpayID     = "mihpayid"
	FieldMode         = "mode"
	FieldError        = "error"
	FieldErrorMessage = "error_Message"
	FieldHash         = "hash"
)

// PaymentOutcome is the decoded form of one gateway redirect. Fields holds
// the gateway's submitted key/value pairs untouched; the gateway owns the
// schema and nothing here validates it.
type PaymentOutcome struct {
	Kind   OutcomeKind
	Fields map[string]string
}

func SuccessOutcome(fields map[string]string) PaymentOutcome {
	return PaymentOutcome{Kind: OutcomeSuccess, Fields: fields}
}

func FailureOutcome(fields map[string]string) PaymentOutcome {
	return PaymentOutcome{Kind: OutcomeFailure, Fields: fields}
}

func UnparseableOutcome() PaymentOutcome {
	return PaymentOutcome{Kind: OutcomeUnparseable}
}

func (o PaymentOutcome) TxnID() string {
	return o.Fields[FieldTxnID]
}

func (o PaymentOutcome) Status() string {
	return o.Fields[FieldStatus]
}
