package service

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"phonenorm_backend/internal/phones/transport"
	"phonenorm_backend/platform/apperr"
)

const utf8BOM = "\ufeff"

// CSVHeader is the header row written by WriteCSV.
var CSVHeader = []string{"input", "normalized", "status", "reason"}

// ReadCSVColumn returns the values of the named column, matched without
// regard to case or surrounding whitespace. Rows shorter than the header
// yield an empty value so every data row keeps its place.
func ReadCSVColumn(r io.Reader, column string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperr.Validation("csv is empty").WithOp("phones.ReadCSVColumn")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "unreadable csv", err).WithOp("phones.ReadCSVColumn")
	}

	index := -1
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(column)) {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, apperr.Validation("column "+column+" not found").
			WithOp("phones.ReadCSVColumn").
			WithDetails(map[string][]string{"columns": header})
	}

	values := make([]string, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.KindBadRequest, "unreadable csv", err).WithOp("phones.ReadCSVColumn")
		}
		if index < len(record) {
			values = append(values, record[index])
		} else {
			values = append(values, "")
		}
	}
	return values, nil
}

// WriteCSV writes one row per item: input, normalized form, status, reason.
// Inputs that a spreadsheet would evaluate as a formula are written with a
// leading apostrophe.
func WriteCSV(w io.Writer, items []transport.ItemResponse) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, item := range items {
		status := "invalid"
		if item.Valid {
			status = "valid"
		}
		if err := writer.Write([]string{escapeFormula(item.Input), item.Normalized, status, item.Reason}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func escapeFormula(cell string) string {
	if cell == "" {
		return cell
	}
	switch cell[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + cell
	}
	return cell
}
