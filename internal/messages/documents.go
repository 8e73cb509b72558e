// Package messages serializes and deserializes ISO 20022 documents for the
// pain.001, pain.002, camt.053 and camt.054 families. Building validates
// first and fails closed; parsing walks the tree by tag name and tolerates
// unknown or reordered elements.
package messages

import "encoding/xml"

// activeAmount is the ISO ActiveOrHistoricCurrencyAndAmount shape: the
// decimal value as character data with the currency as the Ccy attribute.
type activeAmount struct {
	Ccy   string `xml:"Ccy,attr"`
	Value string `xml:",chardata"`
}

// xmlParty is the Nm + optional postal address block used for Dbtr and Cdtr.
type xmlParty struct {
	Nm      string        `xml:"Nm"`
	PstlAdr *xmlPostalAdr `xml:"PstlAdr,omitempty"`
}

type xmlPostalAdr struct {
	StrtNm string `xml:"StrtNm,omitempty"`
	TwnNm  string `xml:"TwnNm,omitempty"`
	Ctry   string `xml:"Ctry,omitempty"`
}

// xmlAccount wraps an IBAN account identification.
type xmlAccount struct {
	Id struct {
		IBAN string `xml:"IBAN"`
	} `xml:"Id"`
}

// xmlAgent wraps a financial institution BIC.
type xmlAgent struct {
	FinInstnId struct {
		BIC string `xml:"BIC"`
	} `xml:"FinInstnId"`
}

// xmlGrpHdr is the group header block shared by every family.
type xmlGrpHdr struct {
	MsgId   string `xml:"MsgId"`
	CreDtTm string `xml:"CreDtTm"`
	NbOfTxs string `xml:"NbOfTxs,omitempty"`
}

// pain.001 customer credit transfer initiation.

type pain001Document struct {
	XMLName xml.Name    `xml:"Document"`
	XMLNS   string      `xml:"xmlns,attr"`
	Body    pain001Body `xml:"CstmrCdtTrfInitn"`
}

type pain001Body struct {
	GrpHdr xmlGrpHdr     `xml:"GrpHdr"`
	PmtInf []pain001Info `xml:"PmtInf"`
}

type pain001Info struct {
	PmtInfId    string     `xml:"PmtInfId"`
	PmtMtd      string     `xml:"PmtMtd"`
	ReqdExctnDt string     `xml:"ReqdExctnDt,omitempty"`
	Dbtr        xmlParty   `xml:"Dbtr"`
	DbtrAcct    xmlAccount `xml:"DbtrAcct"`
	DbtrAgt     *xmlAgent  `xml:"DbtrAgt,omitempty"`
	CdtTrfTxInf pain001Tx  `xml:"CdtTrfTxInf"`
}

type pain001Tx struct {
	PmtId struct {
		InstrId    string `xml:"InstrId"`
		EndToEndId string `xml:"EndToEndId"`
	} `xml:"PmtId"`
	Amt struct {
		InstdAmt activeAmount `xml:"InstdAmt"`
	} `xml:"Amt"`
	CdtrAgt  *xmlAgent  `xml:"CdtrAgt,omitempty"`
	Cdtr     xmlParty   `xml:"Cdtr"`
	CdtrAcct xmlAccount `xml:"CdtrAcct"`
	Purp     *struct {
		Cd string `xml:"Cd"`
	} `xml:"Purp,omitempty"`
}

// pain.002 customer payment status report.

type pain002Document struct {
	XMLName xml.Name    `xml:"Document"`
	XMLNS   string      `xml:"xmlns,attr"`
	Body    pain002Body `xml:"CstmrPmtStsRpt"`
}

type pain002Body struct {
	GrpHdr            xmlGrpHdr `xml:"GrpHdr"`
	OrgnlGrpInfAndSts struct {
		OrgnlMsgId   string `xml:"OrgnlMsgId"`
		OrgnlMsgNmId string `xml:"OrgnlMsgNmId"`
	} `xml:"OrgnlGrpInfAndSts"`
	TxInfAndSts []pain002Tx `xml:"OrgnlPmtInfAndSts>TxInfAndSts"`
}

type pain002Tx struct {
	StsId        string `xml:"StsId"`
	OrgnlInstrId string `xml:"OrgnlInstrId"`
	TxSts        string `xml:"TxSts"`
	StsRsnInf    *struct {
		AddtlInf string `xml:"AddtlInf"`
	} `xml:"StsRsnInf,omitempty"`
}

// camt.053 bank-to-customer statement and camt.054 notification. The two
// families share the same element vocabulary under different root children.

type camtDocument struct {
	XMLName xml.Name  `xml:"Document"`
	XMLNS   string    `xml:"xmlns,attr"`
	Stmt    *camtBody `xml:"BkToCstmrStmt,omitempty"`
	Ntfctn  *camtBody `xml:"BkToCstmrDbtCdtNtfctn,omitempty"`
}

type camtBody struct {
	GrpHdr xmlGrpHdr      `xml:"GrpHdr"`
	Stmt   *camtStatement `xml:"Stmt,omitempty"`
	Ntfctn *camtStatement `xml:"Ntfctn,omitempty"`
}

type camtStatement struct {
	Id      string      `xml:"Id"`
	CreDtTm string      `xml:"CreDtTm,omitempty"`
	Acct    xmlAccount  `xml:"Acct"`
	Bal     camtBalance `xml:"Bal"`
	Ntry    []camtEntry `xml:"Ntry"`
}

type camtBalance struct {
	Tp struct {
		CdOrPrtry struct {
			Cd string `xml:"Cd"`
		} `xml:"CdOrPrtry"`
	} `xml:"Tp"`
	Amt activeAmount `xml:"Amt"`
	Dt  struct {
		Dt string `xml:"Dt"`
	} `xml:"Dt"`
}

type camtEntry struct {
	NtryRef   string       `xml:"NtryRef"`
	Amt       activeAmount `xml:"Amt"`
	CdtDbtInd string       `xml:"CdtDbtInd"`
	BookgDt   struct {
		Dt string `xml:"Dt"`
	} `xml:"BookgDt"`
	ValDt struct {
		Dt string `xml:"Dt"`
	} `xml:"ValDt"`
}
