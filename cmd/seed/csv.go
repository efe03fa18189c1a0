package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// productRow fila del CSV de carga inicial.
type productRow struct {
	Line     int
	SKU      string
	Name     string
	Quantity int64
}

// decoderFor envuelve r para convertir a UTF-8. Las hojas exportadas desde Excel en Windows usan 1252.
func decoderFor(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(encoding, "_", "-")) {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación no soportada: %s", encoding)
}

// readRows detecta el separador (; o ,) en la primera línea y omite el encabezado si la
// tercera columna no es numérica.
func readRows(r io.Reader, encoding string) ([]productRow, error) {
	dec, err := decoderFor(r, encoding)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(dec)
	head, err := br.Peek(1024)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}
	firstLine := string(head)
	if i := strings.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}

	cr := csv.NewReader(br)
	cr.Comma = ','
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		cr.Comma = ';'
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []productRow
	seen := make(map[string]int)
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperaban 3 columnas, hay %d", line, len(rec))
		}
		sku := strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff"))
		name := strings.TrimSpace(rec[1])
		qty, err := strconv.ParseInt(strings.TrimSpace(rec[2]), 10, 64)
		if err != nil {
			if first {
				continue
			}
			return nil, fmt.Errorf("línea %d: cantidad inválida %q", line, rec[2])
		}
		if sku == "" || name == "" {
			return nil, fmt.Errorf("línea %d: sku y nombre son obligatorios", line)
		}
		if qty < 0 {
			return nil, fmt.Errorf("línea %d: cantidad negativa", line)
		}
		key := strings.ToUpper(sku)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("línea %d: sku %s repetido (línea %d)", line, sku, prev)
		}
		seen[key] = line
		rows = append(rows, productRow{Line: line, SKU: sku, Name: name, Quantity: qty})
	}
	return rows, nil
}
