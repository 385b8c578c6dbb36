package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txparse/internal/model"
)

// Header is the CSV header of batch output.
const Header = "source,type,amount,category,description,date,confidence"

const (
	numFields   = 7
	colSource   = 0
	colType     = 1
	colAmount   = 2
	colCategory = 3
	colDesc     = 4
	colDate     = 5
	colConf     = 6
)

// Record is a parsed transaction plus the file it came from.
type Record struct {
	Source string
	model.Transaction
}

// ReadRecords reads all records from a batch CSV reader.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading records CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var recs []Record
	for i, row := range rows[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// WriteRecords writes records with a header row.
func WriteRecords(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, rec := range recs {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(rec Record) []string {
	row := make([]string, numFields)
	row[colSource] = rec.Source
	row[colType] = string(rec.Type)
	row[colAmount] = rec.Amount.StringFixed(2)
	row[colCategory] = rec.Category
	row[colDesc] = rec.Description
	row[colDate] = rec.Date
	row[colConf] = strconv.FormatFloat(rec.Confidence, 'f', 2, 64)
	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(row []string) (Record, error) {
	if len(row) != numFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	typ := model.TransactionType(row[colType])
	if typ != model.TypeIncome && typ != model.TypeExpense {
		return Record{}, fmt.Errorf("unknown type %q", row[colType])
	}

	amount, err := decimal.NewFromString(row[colAmount])
	if err != nil {
		return Record{}, fmt.Errorf("parsing amount %q: %w", row[colAmount], err)
	}

	conf, err := strconv.ParseFloat(row[colConf], 64)
	if err != nil {
		return Record{}, fmt.Errorf("parsing confidence %q: %w", row[colConf], err)
	}

	return Record{
		Source: row[colSource],
		Transaction: model.Transaction{
			Type:        typ,
			Amount:      amount,
			Category:    row[colCategory],
			Description: row[colDesc],
			Date:        row[colDate],
			Confidence:  conf,
		},
	}, nil
}
