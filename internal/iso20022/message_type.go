package iso20022

// MessageType identifies an ISO 20022 message family and version. The value
// is the schema identifier as it appears in the document namespace.
type MessageType string

const (
	// PaymentInitiation is the customer credit transfer initiation family (pain.001).
	PaymentInitiation MessageType = "pain.001.001.03"
	// PaymentStatusReport is the customer payment status report family (pain.002).
	PaymentStatusReport MessageType = "pain.002.001.03"
	// AccountStatement is the bank-to-customer statement family (camt.053).
	AccountStatement MessageType = "camt.053.001.02"
	// Notification is the bank-to-customer debit/credit notification family (camt.054).
	Notification MessageType = "camt.054.001.02"
)

const namespacePrefix = "urn:iso:std:iso:20022:tech:xsd:"

// AllMessageTypes lists every message family the engine implements.
var AllMessageTypes = []MessageType{
	PaymentInitiation,
	PaymentStatusReport,
	AccountStatement,
	Notification,
}

// Namespace returns the XML namespace URI for the message family.
func (mt MessageType) Namespace() string {
	return namespacePrefix + string(mt)
}

// Supported reports whether mt is one of the implemented message families.
func (mt MessageType) Supported() bool {
	switch mt {
	case PaymentInitiation, PaymentStatusReport, AccountStatement, Notification:
		return true
	}
	return false
}

// MessageTypeForNamespace resolves a document namespace back to its message
// family. The second return value is false when the namespace does not belong
// to any implemented family.
func MessageTypeForNamespace(ns string) (MessageType, bool) {
	for _, mt := range AllMessageTypes {
		if mt.Namespace() == ns {
			return mt, true
		}
	}
	return "", false
}
