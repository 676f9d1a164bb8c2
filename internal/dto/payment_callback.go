package dto

// PaymentCallback is the typed view of the fields this service consumes from a
// VNPay return callback. Signature verification runs over the raw query values,
// not this struct, because every delivered parameter participates in the signed
// payload.
type PaymentCallback struct {
	TxnRef        string `query:"vnp_TxnRef"`
	ResponseCode  string `query:"vnp_ResponseCode"`
	Amount        string `query:"vnp_Amount"`
	TransactionNo string `query:"vnp_TransactionNo"`
	PayDate       string `query:"vnp_PayDate"`
	BankCode      string `query:"vnp_BankCode"`
}
