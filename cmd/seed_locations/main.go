// seed_locations genera el script SQL que carga ubicaciones y productos de referencia
// a partir de exportaciones CSV del ERP (codificadas en ISO-8859-1).
//
// Uso: go run ./cmd/seed_locations [ubicaciones.csv] [productos.csv]
// Por defecto busca locations.csv y products.csv en el directorio actual; un archivo ausente se omite.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_reference_data.sql
//
// Columnas esperadas (con cabecera):
//
//	ubicaciones: id,name,type,address   (id vacío = UUID derivado del nombre)
//	productos:   id,sku,name,min_stock_level
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Espacio de nombres para derivar UUIDs estables a partir de nombres o SKUs.
var seedNamespace = uuid.MustParse("6f1c2a4e-8b7d-4c1a-9e3f-2d5b7a9c0e11")

type locationRow struct {
	id, name, address string
	typ               entity.LocationType
}

type productRow struct {
	id, sku, name string
	minStock      decimal.Decimal
}

func main() {
	locPath, prodPath := "locations.csv", "products.csv"
	if len(os.Args) > 1 {
		locPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		prodPath = os.Args[2]
	}

	var (
		locations []locationRow
		products  []productRow
	)
	if err := withLatin1File(locPath, func(r io.Reader) (err error) {
		locations, err = parseLocations(r)
		return err
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Ubicaciones: %v\n", err)
		os.Exit(1)
	}
	if err := withLatin1File(prodPath, func(r io.Reader) (err error) {
		products, err = parseProducts(r)
		return err
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Productos: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_reference_data.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSeedSQL(out, locations, products); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d ubicaciones, %d productos\n", outPath, len(locations), len(products))
}

// withLatin1File abre path y entrega su contenido ya convertido a UTF-8. Si no existe, no hace nada.
func withLatin1File(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Omitido %s: no existe\n", path)
			return nil
		}
		return err
	}
	defer f.Close()
	return fn(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
}

func readRecords(r io.Reader, columns int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = columns
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil // cabecera
}

func parseLocations(r io.Reader) ([]locationRow, error) {
	records, err := readRecords(r, 4)
	if err != nil {
		return nil, err
	}
	out := make([]locationRow, 0, len(records))
	for i, rec := range records {
		name := strings.TrimSpace(rec[1])
		if name == "" {
			return nil, fmt.Errorf("fila %d: nombre vacío", i+2)
		}
		typ, err := entity.ParseLocationType(rec[2])
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", i+2, err)
		}
		id, err := rowID(rec[0], "location:"+name)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", i+2, err)
		}
		out = append(out, locationRow{id: id, name: name, typ: typ, address: strings.TrimSpace(rec[3])})
	}
	return out, nil
}

func parseProducts(r io.Reader) ([]productRow, error) {
	records, err := readRecords(r, 4)
	if err != nil {
		return nil, err
	}
	out := make([]productRow, 0, len(records))
	for i, rec := range records {
		sku, name := strings.TrimSpace(rec[1]), strings.TrimSpace(rec[2])
		if sku == "" || name == "" {
			return nil, fmt.Errorf("fila %d: sku y nombre son obligatorios", i+2)
		}
		minStock := decimal.Zero
		if raw := strings.TrimSpace(rec[3]); raw != "" {
			// Las exportaciones usan coma decimal.
			minStock, err = decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
			if err != nil {
				return nil, fmt.Errorf("fila %d: stock mínimo %q: %w", i+2, raw, err)
			}
			if minStock.IsNegative() {
				return nil, fmt.Errorf("fila %d: stock mínimo negativo", i+2)
			}
		}
		id, err := rowID(rec[0], "product:"+sku)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", i+2, err)
		}
		out = append(out, productRow{id: id, sku: sku, name: name, minStock: minStock})
	}
	return out, nil
}

func rowID(raw, seed string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.NewSHA1(seedNamespace, []byte(seed)).String(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("id %q no es un UUID", raw)
	}
	return id.String(), nil
}

func writeSeedSQL(w io.Writer, locations []locationRow, products []productRow) error {
	var b strings.Builder
	b.WriteString("-- Datos de referencia: ubicaciones y productos\n")
	b.WriteString("-- Generado por cmd/seed_locations\n\n")

	if len(locations) > 0 {
		b.WriteString("INSERT INTO locations (id, name, type, address) VALUES\n")
		for i, l := range locations {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s')", l.id, escapeSQL(l.name), l.typ, escapeSQL(l.address))
			b.WriteString(rowSeparator(i, len(locations)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, type = EXCLUDED.type, address = EXCLUDED.address;\n\n")
	}

	if len(products) > 0 {
		b.WriteString("INSERT INTO products (id, sku, name, min_stock_level) VALUES\n")
		for i, p := range products {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', %s)", p.id, escapeSQL(p.sku), escapeSQL(p.name), p.minStock.String())
			b.WriteString(rowSeparator(i, len(products)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET sku = EXCLUDED.sku, name = EXCLUDED.name, min_stock_level = EXCLUDED.min_stock_level;\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func rowSeparator(i, n int) string {
	if i < n-1 {
		return ",\n"
	}
	return "\n"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
