package myinvois

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/pkg/lhdn"
	"github.com/jhoicas/myinvois-erp/pkg/money"
)

// Namespaces UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// FormatXML valor de "format" en el envío.
const FormatXML = "XML"

// UBLBuilder construye el documento UBL 2.1 (versión 1.0, sin firma) que exige MyInvois.
type UBLBuilder struct{}

// NewUBLBuilder crea el builder.
func NewUBLBuilder() *UBLBuilder {
	return &UBLBuilder{}
}

var _ appeinvoice.DocumentBuilder = (*UBLBuilder)(nil)

// Build genera el XML, lo canonicaliza (C14N) y calcula su SHA-256.
// El contenido devuelto es el canonicalizado: es el que se envía y cuyo hash se declara.
func (b *UBLBuilder) Build(in *appeinvoice.DocumentInput) (*appeinvoice.BuiltDocument, error) {
	if in == nil || in.Invoice == nil || in.Company == nil || in.Customer == nil {
		return nil, fmt.Errorf("ubl: faltan factura, empresa o cliente")
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("ubl: la factura %s no tiene líneas", in.Invoice.Number)
	}
	inv := in.Invoice
	cur := inv.CurrencyCode
	if cur == "" {
		cur = money.BaseCurrencyCode
	}
	issued := in.IssuedAt.UTC()
	docType := inv.DocumentType
	if docType == "" {
		docType = lhdn.DocTypeInvoice
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "ID", inv.Number)
	cbc(root, "IssueDate", issued.Format("2006-01-02"))
	cbc(root, "IssueTime", issued.Format("15:04:05")+"Z")
	cbc(root, "InvoiceTypeCode", docType).CreateAttr("listVersionID", lhdn.DocumentVersion)
	if inv.Notes != "" {
		cbc(root, "Note", inv.Notes)
	}
	cbc(root, "DocumentCurrencyCode", cur)
	cbc(root, "TaxCurrencyCode", money.BaseCurrencyCode)
	if cur != money.BaseCurrencyCode {
		rate := cac(root, "TaxExchangeRate")
		cbc(rate, "SourceCurrencyCode", cur)
		cbc(rate, "TargetCurrencyCode", money.BaseCurrencyCode)
		cbc(rate, "CalculationRate", inv.ExchangeRate.String())
	}

	writeSupplier(cac(root, "AccountingSupplierParty"), in.Company)
	writeCustomer(cac(root, "AccountingCustomerParty"), in.Customer)
	writeTaxTotal(root, in.Lines, inv.TaxTotal, cur)

	totals := cac(root, "LegalMonetaryTotal")
	amount(totals, "LineExtensionAmount", inv.NetTotal, cur)
	amount(totals, "TaxExclusiveAmount", inv.NetTotal, cur)
	amount(totals, "TaxInclusiveAmount", inv.GrandTotal, cur)
	amount(totals, "PayableAmount", inv.GrandTotal, cur)

	for _, l := range in.Lines {
		writeLine(root, l, cur)
	}

	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("ubl: serializar: %w", err)
	}
	canonical, err := canonicalize(raw)
	if err != nil {
		return nil, fmt.Errorf("ubl: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return &appeinvoice.BuiltDocument{
		Content:     canonical,
		Hash:        hex.EncodeToString(sum[:]),
		Format:      FormatXML,
		ContentType: "application/xml",
	}, nil
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

func cbc(parent *etree.Element, local, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + local)
	el.SetText(value)
	return el
}

func cac(parent *etree.Element, local string) *etree.Element {
	return parent.CreateElement("cac:" + local)
}

func amount(parent *etree.Element, local string, v decimal.Decimal, currency string) {
	cbc(parent, local, v.StringFixed(2)).CreateAttr("currencyID", currency)
}

func partyID(party *etree.Element, scheme, value string) {
	if value == "" {
		return
	}
	cbc(cac(party, "PartyIdentification"), "ID", value).CreateAttr("schemeID", scheme)
}

func writeAddress(party *etree.Element, line, city, postcode, state, country string) {
	addr := cac(party, "PostalAddress")
	if city != "" {
		cbc(addr, "CityName", city)
	}
	if postcode != "" {
		cbc(addr, "PostalZone", postcode)
	}
	if state != "" {
		cbc(addr, "CountrySubentityCode", state)
	}
	if line != "" {
		cbc(cac(addr, "AddressLine"), "Line", line)
	}
	if country == "" {
		country = lhdn.CountryMalaysia
	}
	code := cbc(cac(addr, "Country"), "IdentificationCode", country)
	code.CreateAttr("listID", "ISO3166-1")
	code.CreateAttr("listAgencyID", "6")
}

func writeContact(party *etree.Element, phone, email string) {
	if phone == "" && email == "" {
		return
	}
	c := cac(party, "Contact")
	if phone != "" {
		cbc(c, "Telephone", phone)
	}
	if email != "" {
		cbc(c, "ElectronicMail", email)
	}
}

func writeSupplier(el *etree.Element, c *entity.Company) {
	party := cac(el, "Party")
	if c.MSICCode != "" {
		cbc(party, "IndustryClassificationCode", c.MSICCode).CreateAttr("name", c.BusinessActivity)
	}
	partyID(party, "TIN", c.TIN)
	partyID(party, "BRN", c.BRN)
	sst := c.SSTNumber
	if sst == "" {
		sst = "NA"
	}
	partyID(party, "SST", sst)
	writeAddress(party, c.Address, c.City, c.Postcode, c.State, lhdn.CountryMalaysia)
	cbc(cac(party, "PartyLegalEntity"), "RegistrationName", c.Name)
	writeContact(party, c.Phone, c.Email)
}

func writeCustomer(el *etree.Element, c *entity.Customer) {
	party := cac(el, "Party")
	partyID(party, "TIN", c.TIN)
	partyID(party, c.IDScheme, c.IDValue)
	sst := c.SSTNumber
	if sst == "" {
		sst = "NA"
	}
	partyID(party, "SST", sst)
	writeAddress(party, c.Address, c.City, c.Postcode, c.State, c.Country)
	cbc(cac(party, "PartyLegalEntity"), "RegistrationName", c.Name)
	writeContact(party, c.Phone, c.Email)
}

func taxCategory(parent *etree.Element, taxType string) *etree.Element {
	cat := cac(parent, "TaxCategory")
	cbc(cat, "ID", taxType)
	id := cbc(cac(cat, "TaxScheme"), "ID", "OTH")
	id.CreateAttr("schemeID", "UN/ECE 5153")
	id.CreateAttr("schemeAgencyID", "6")
	return cat
}

// writeTaxTotal agrupa las líneas por tipo de impuesto (orden estable por código).
func writeTaxTotal(root *etree.Element, lines []*entity.InvoiceLine, total decimal.Decimal, cur string) {
	type bucket struct{ taxable, tax decimal.Decimal }
	byType := map[string]*bucket{}
	for _, l := range lines {
		b, ok := byType[l.TaxType]
		if !ok {
			b = &bucket{}
			byType[l.TaxType] = b
		}
		b.taxable = b.taxable.Add(l.Subtotal)
		b.tax = b.tax.Add(l.TaxAmount)
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	tt := cac(root, "TaxTotal")
	amount(tt, "TaxAmount", total, cur)
	for _, t := range types {
		sub := cac(tt, "TaxSubtotal")
		amount(sub, "TaxableAmount", byType[t].taxable, cur)
		amount(sub, "TaxAmount", byType[t].tax, cur)
		taxCategory(sub, t)
	}
}

func writeLine(root *etree.Element, l *entity.InvoiceLine, cur string) {
	line := cac(root, "InvoiceLine")
	cbc(line, "ID", fmt.Sprintf("%d", l.LineNo))
	cbc(line, "InvoicedQuantity", l.Quantity.String()).CreateAttr("unitCode", l.UnitCode)
	amount(line, "LineExtensionAmount", l.Subtotal, cur)

	tt := cac(line, "TaxTotal")
	amount(tt, "TaxAmount", l.TaxAmount, cur)
	sub := cac(tt, "TaxSubtotal")
	amount(sub, "TaxableAmount", l.Subtotal, cur)
	amount(sub, "TaxAmount", l.TaxAmount, cur)
	cbc(sub, "Percent", l.TaxRate.String())
	taxCategory(sub, l.TaxType)

	item := cac(line, "Item")
	cbc(item, "Description", strings.TrimSpace(l.Description))
	cbc(cac(item, "CommodityClassification"), "ItemClassificationCode", l.ClassificationCode).CreateAttr("listID", "CLASS")

	cbc(cac(line, "Price"), "PriceAmount", l.UnitPrice.String()).CreateAttr("currencyID", cur)
	amount(cac(line, "ItemPriceExtension"), "Amount", l.Subtotal, cur)
}
