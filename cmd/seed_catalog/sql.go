package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// writeSQL genera un script idempotente: clientes por ON CONFLICT y productos solo si no existe
// uno activo con el mismo nombre.
func writeSQL(w io.Writer, c *catalog, source string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "-- Catálogo inicial generado desde %s\n\n", source)

	if len(c.Clients) > 0 {
		bw.WriteString("-- 1. Clientes\n")
		bw.WriteString("INSERT INTO clients (name, email, phone, tax_id) VALUES\n")
		for i, cl := range c.Clients {
			sep := ","
			if i == len(c.Clients)-1 {
				sep = ""
			}
			fmt.Fprintf(bw, "  (%s, %s, %s, %s)%s\n", quote(cl.Name), quote(cl.Email), nullable(cl.Phone), quote(cl.TaxID), sep)
		}
		bw.WriteString("ON CONFLICT DO NOTHING;\n\n")
	}

	if len(c.Products) > 0 {
		bw.WriteString("-- 2. Productos\n")
		for _, p := range c.Products {
			fmt.Fprintf(bw, "INSERT INTO products (name, description, price, stock)\n")
			fmt.Fprintf(bw, "SELECT %s, %s, %s, %d\n", quote(p.Name), quote(p.Description), p.Price.StringFixed(2), p.Stock)
			fmt.Fprintf(bw, "WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = %s AND deleted_at IS NULL);\n", quote(p.Name))
		}
	}
	return bw.Flush()
}

// quote escapa comillas y corta los "{{" porque tern procesa cada script como plantilla.
func quote(s string) string {
	s = strings.ReplaceAll(s, "'", "''")
	s = strings.ReplaceAll(s, "{{", "{' || '{")
	return "'" + s + "'"
}

func nullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return quote(s)
}
