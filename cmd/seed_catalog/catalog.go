package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// catalogProduct producto inicial del catálogo.
type catalogProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

// catalogClient cliente inicial del catálogo.
type catalogClient struct {
	Name  string
	Email string
	Phone string
	TaxID string
}

type catalog struct {
	Products []catalogProduct
	Clients  []catalogClient
}

// charsetReader acepta los catálogos exportados en ISO-8859-1 además de UTF-8.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToUpper(charset) {
	case "ISO-8859-1", "ISO8859-1", "LATIN1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "", "UTF-8", "UTF8":
		return input, nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", charset)
	}
}

// parseCatalog lee un XML de la forma:
//
//	<catalogo>
//	  <producto nombre="..." precio="100.00" stock="5"><descripcion>...</descripcion></producto>
//	  <cliente nombre="..." email="..." nit="..." telefono="..."/>
//	</catalogo>
func parseCatalog(r io.Reader) (*catalog, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("leer XML: %w", err)
	}
	root := doc.SelectElement("catalogo")
	if root == nil {
		return nil, fmt.Errorf("falta el elemento raíz <catalogo>")
	}

	var out catalog
	for i, el := range root.SelectElements("producto") {
		p, err := parseProduct(el)
		if err != nil {
			return nil, fmt.Errorf("producto #%d: %w", i+1, err)
		}
		out.Products = append(out.Products, p)
	}
	for i, el := range root.SelectElements("cliente") {
		c := catalogClient{
			Name:  strings.TrimSpace(el.SelectAttrValue("nombre", "")),
			Email: strings.ToLower(strings.TrimSpace(el.SelectAttrValue("email", ""))),
			Phone: strings.TrimSpace(el.SelectAttrValue("telefono", "")),
			TaxID: strings.TrimSpace(el.SelectAttrValue("nit", "")),
		}
		if c.Name == "" || c.Email == "" || c.TaxID == "" {
			return nil, fmt.Errorf("cliente #%d: nombre, email y nit son obligatorios", i+1)
		}
		out.Clients = append(out.Clients, c)
	}
	return &out, nil
}

func parseProduct(el *etree.Element) (catalogProduct, error) {
	p := catalogProduct{Name: strings.TrimSpace(el.SelectAttrValue("nombre", ""))}
	if p.Name == "" {
		return p, fmt.Errorf("nombre vacío")
	}
	if d := el.SelectElement("descripcion"); d != nil {
		p.Description = strings.TrimSpace(d.Text())
	}
	price, err := decimal.NewFromString(el.SelectAttrValue("precio", ""))
	if err != nil || price.IsNegative() {
		return p, fmt.Errorf("precio inválido %q", el.SelectAttrValue("precio", ""))
	}
	p.Price = price.Round(2)
	stock, err := strconv.Atoi(el.SelectAttrValue("stock", "0"))
	if err != nil || stock < 0 {
		return p, fmt.Errorf("stock inválido %q", el.SelectAttrValue("stock", ""))
	}
	p.Stock = stock
	return p, nil
}
