package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/hmicodes/catalog/internal/domain/entities"
	"github.com/hmicodes/catalog/internal/ports"
)

// DefaultDelimiter separates columns in the data file
const DefaultDelimiter = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrorRecordRepositoryImpl stores the catalog in a single delimited text file.
//
// Every write loads the full file, mutates it in memory and overwrites it.
// There is no locking: two concurrent writers race and the last one wins.
type ErrorRecordRepositoryImpl struct {
	path      string
	delimiter rune
}

// NewErrorRecordRepository creates a file-backed repository at path
func NewErrorRecordRepository(path string, delimiter rune) ports.ErrorRecordRepository {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &ErrorRecordRepositoryImpl{path: path, delimiter: delimiter}
}

func (r *ErrorRecordRepositoryImpl) ListAll(ctx context.Context) ([]entities.ErrorRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.load()
}

func (r *ErrorRecordRepositoryImpl) Add(ctx context.Context, record entities.ErrorRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records, err := r.load()
	if err != nil {
		return err
	}

	records = append(records, record)
	return r.save(records)
}

func (r *ErrorRecordRepositoryImpl) Update(ctx context.Context, code string, record entities.ErrorRecord) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	records, err := r.load()
	if err != nil {
		return false, err
	}

	for i := range records {
		if records[i].Code == code {
			records[i] = record
			return true, r.save(records)
		}
	}

	return false, nil
}

func (r *ErrorRecordRepositoryImpl) Delete(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	records, err := r.load()
	if err != nil {
		return false, err
	}

	kept := records[:0]
	for _, rec := range records {
		if rec.Code != code {
			kept = append(kept, rec)
		}
	}

	if len(kept) == len(records) {
		return false, nil
	}
	return true, r.save(kept)
}

func (r *ErrorRecordRepositoryImpl) load() ([]entities.ErrorRecord, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []entities.ErrorRecord{}, nil
		}
		return nil, &entities.StorageError{Op: "read", Path: r.path, Err: err}
	}

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.Comma = r.delimiter
	reader.FieldsPerRecord = -1
	// Hand-edited files carry bare quotes inside unquoted fields.
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return []entities.ErrorRecord{}, nil
	}
	if err != nil {
		return nil, r.malformed(err)
	}
	if !isHeader(header) {
		return nil, r.malformed(fmt.Errorf("%w: header %q does not match %q", entities.ErrMalformedData, header, entities.FieldNames))
	}

	records := []entities.ErrorRecord{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, r.malformed(err)
		}

		record, err := entities.ErrorRecordFromRow(row)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, r.malformed(fmt.Errorf("line %d: %w", line, err))
		}
		records = append(records, record)
	}

	return records, nil
}

func (r *ErrorRecordRepositoryImpl) save(records []entities.ErrorRecord) error {
	f, err := os.Create(r.path)
	if err != nil {
		return &entities.StorageError{Op: "write", Path: r.path, Err: err}
	}

	w := csv.NewWriter(f)
	w.Comma = r.delimiter

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, entities.FieldNames)
	for _, rec := range records {
		rows = append(rows, rec.Row())
	}

	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return &entities.StorageError{Op: "write", Path: r.path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &entities.StorageError{Op: "write", Path: r.path, Err: err}
	}

	return nil
}

func (r *ErrorRecordRepositoryImpl) malformed(err error) error {
	if !errors.Is(err, entities.ErrMalformedData) {
		err = fmt.Errorf("%w: %v", entities.ErrMalformedData, err)
	}
	return &entities.StorageError{Op: "decode", Path: r.path, Err: err}
}

func isHeader(row []string) bool {
	if len(row) != len(entities.FieldNames) {
		return false
	}
	for i, name := range entities.FieldNames {
		if row[i] != name {
			return false
		}
	}
	return true
}
