package iso20022

// CurrencyCode is an ISO 4217 currency code, extended at runtime with the
// symbols of registered crypto assets.
type CurrencyCode string

// isoCurrencies is the set of ISO 4217 codes accepted without registration.
var isoCurrencies = map[CurrencyCode]struct{}{
	"AED": {}, "AUD": {}, "BRL": {}, "CAD": {}, "CHF": {}, "CNY": {},
	"CZK": {}, "DKK": {}, "EUR": {}, "GBP": {}, "HKD": {}, "HUF": {},
	"IDR": {}, "ILS": {}, "INR": {}, "JPY": {}, "KRW": {}, "MXN": {},
	"MYR": {}, "NOK": {}, "NZD": {}, "PHP": {}, "PLN": {}, "RUB": {},
	"SAR": {}, "SEK": {}, "SGD": {}, "THB": {}, "TRY": {}, "USD": {},
	"ZAR": {},
}

// IsISOCurrency reports whether code is a member of the built-in ISO 4217 set.
func IsISOCurrency(code CurrencyCode) bool {
	_, ok := isoCurrencies[code]
	return ok
}

// PaymentPurpose is an ISO 20022 purpose code. Free-form values are not
// permitted; only the members below are valid.
type PaymentPurpose string

const (
	PurposeOther          PaymentPurpose = "OTHR"
	PurposeCommercial     PaymentPurpose = "COMC"
	PurposeSalary         PaymentPurpose = "SALA"
	PurposeTrade          PaymentPurpose = "TRAD"
	PurposeTreasury       PaymentPurpose = "TREA"
	PurposeSupplier       PaymentPurpose = "SUPP"
	PurposeIntraCompany   PaymentPurpose = "INTC"
	PurposeCashManagement PaymentPurpose = "CASH"
)

var paymentPurposes = map[PaymentPurpose]struct{}{
	PurposeOther: {}, PurposeCommercial: {}, PurposeSalary: {},
	PurposeTrade: {}, PurposeTreasury: {}, PurposeSupplier: {},
	PurposeIntraCompany: {}, PurposeCashManagement: {},
}

// Valid reports whether p is a member of the purpose vocabulary.
func (p PaymentPurpose) Valid() bool {
	_, ok := paymentPurposes[p]
	return ok
}

// StatusCode is an ISO 20022 transaction status code as reported in a
// pain.002 payment status report.
type StatusCode string

const (
	StatusAccepted           StatusCode = "ACCP"
	StatusSettlementComplete StatusCode = "ACSC"
	StatusSettlementProcess  StatusCode = "ACSP"
	StatusTechnicallyValid   StatusCode = "ACTC"
	StatusPending            StatusCode = "PDNG"
	StatusReceived           StatusCode = "RCVD"
	StatusRejected           StatusCode = "RJCT"
)

var statusCodes = map[StatusCode]struct{}{
	StatusAccepted: {}, StatusSettlementComplete: {}, StatusSettlementProcess: {},
	StatusTechnicallyValid: {}, StatusPending: {}, StatusReceived: {},
	StatusRejected: {},
}

// Valid reports whether s is a member of the status vocabulary.
func (s StatusCode) Valid() bool {
	_, ok := statusCodes[s]
	return ok
}
