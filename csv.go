// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsplit

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

var EncName = "utf-8"

func init() {
	EncName = os.Getenv("LANG")
	if i := strings.IndexByte(EncName, '.'); i >= 0 {
		EncName = strings.ToLower(EncName[i+1:])
	}
	if EncName == "" {
		EncName = "utf-8"
	}
}

func GetEncoding(encName string) (encoding.Encoding, error) {
	encName = strings.ToLower(encName)
	if encName == "" || encName == "utf-8" || encName == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(encName)
	if err != nil {
		err = fmt.Errorf("%q: %w", encName, err)
	}
	return enc, err
}

type csvReadCloser struct {
	*csv.Reader
	io.Closer
}

// OpenCsv opens fn ("" or "-" means stdin), decoding with encName and
// sniffing the field separator from the first kilobyte.
func OpenCsv(fn, encName string) (csvReadCloser, error) {
	var enc encoding.Encoding
	if encName != "" {
		var err error
		if enc, err = GetEncoding(encName); err != nil {
			return csvReadCloser{}, err
		}
	}
	fh := os.Stdin
	if !(fn == "" || fn == "-") {
		var err error
		if fh, err = os.Open(fn); err != nil {
			return csvReadCloser{}, err
		}
	}
	r := io.ReadCloser(fh)
	if enc != nil {
		r = struct {
			io.Reader
			io.Closer
		}{enc.NewDecoder().Reader(r), r}
	}
	br := bufio.NewReaderSize(r, 1<<20)
	b, err := br.Peek(1024)
	if err != nil && len(b) == 0 {
		return csvReadCloser{}, err
	}
	sep := rune(',')
	for _, r := range string(b) {
		if r == '"' || r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) {
			continue
		}
		sep = r
		break
	}

	cr := csv.NewReader(br)
	cr.ReuseRecord = true
	cr.Comma = sep
	return csvReadCloser{cr, r}, nil
}

type csvSource struct {
	cr     *csv.Reader
	record []any
}

// CSVSource adapts a csv.Reader into a RowSource, each field a string.
func CSVSource(cr *csv.Reader) RowSource { return &csvSource{cr: cr} }

func (s *csvSource) Next() ([]any, error) {
	fields, err := s.cr.Read()
	if err != nil {
		return nil, err
	}
	if cap(s.record) < len(fields) {
		s.record = make([]any, len(fields))
	}
	s.record = s.record[:len(fields)]
	for i, f := range fields {
		s.record[i] = f
	}
	return s.record, nil
}

// ExportCSV writes every record of src to w in its display form, fields
// separated by sep. Embedded separators are quoted by the csv writer.
// With gzipped, the output is gzip-compressed.
func ExportCSV(w io.Writer, src RowSource, sep rune, gzipped bool) error {
	if gzipped {
		gw := gzip.NewWriter(w)
		if err := ExportCSV(gw, src, sep, false); err != nil {
			gw.Close()
			return err
		}
		return gw.Close()
	}
	cw := csv.NewWriter(w)
	if sep != 0 {
		cw.Comma = sep
	}
	var fields []string
	for {
		record, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		fields = fields[:0]
		for _, v := range record {
			fields = append(fields, ValueOf(v).String())
		}
		if err = cw.Write(fields); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
