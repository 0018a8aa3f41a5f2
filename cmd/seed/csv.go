package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/pos-api/internal/application/dto"
)

type csvRow struct {
	line int
	req  dto.CreateItemRequest
	err  error
}

var requiredColumns = []string{"sku", "name", "unit"}

// readItemsCSV lee el archivo completo. Los errores por fila quedan en csvRow.err;
// solo un archivo ilegible o sin las columnas requeridas devuelve error.
func readItemsCSV(r *bufio.Reader, latin1 bool) ([]csvRow, error) {
	var src io.Reader = r
	if latin1 {
		src = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	br := bufio.NewReader(src)

	header, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	cr := csv.NewReader(br)
	cr.Comma = detectComma(string(header))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	cols, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(c, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}

	var rows []csvRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rows = append(rows, csvRow{line: line, err: err})
			continue
		}
		req, err := parseItem(rec, index)
		rows = append(rows, csvRow{line: line, req: req, err: err})
	}
	return rows, nil
}

func detectComma(header string) rune {
	first, _, _ := strings.Cut(header, "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

func parseItem(rec []string, index map[string]int) (dto.CreateItemRequest, error) {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	req := dto.CreateItemRequest{SKU: get("sku"), Name: get("name"), Unit: get("unit")}
	var err error
	if req.CostPrice, err = money(get("cost_price")); err != nil {
		return req, fmt.Errorf("cost_price: %w", err)
	}
	if req.SellingPrice, err = money(get("selling_price")); err != nil {
		return req, fmt.Errorf("selling_price: %w", err)
	}
	if req.TaxRate, err = money(get("tax_rate")); err != nil {
		return req, fmt.Errorf("tax_rate: %w", err)
	}
	for col, dst := range map[string]*int64{
		"reorder_level": &req.ReorderLevel,
		"min_stock":     &req.MinStock,
		"max_stock":     &req.MaxStock,
		"initial_stock": &req.InitialStock,
	} {
		v := get(col)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("%s: %w", col, err)
		}
		*dst = n
	}
	return req, nil
}

// money acepta punto o coma decimal ("1250.50", "1250,50"); vacío = 0.
func money(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}
