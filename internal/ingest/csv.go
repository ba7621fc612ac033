package ingest

import (
	"bytes"
	"encoding/csv"
	"os"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/agrisurvey/soilreport/internal/table"
)

// ReadCSV reads a CSV export. Files from Chinese GIS tooling are frequently
// GB18030 rather than UTF-8, so invalid UTF-8 input is transparently decoded
// as GB18030 before parsing. The first record is the header.
func ReadCSV(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read csv %s", path)
	}

	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(data) {
		decoded, decErr := simplifiedchinese.GB18030.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, eris.Wrapf(decErr, "ingest: decode csv %s", path)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: parse csv %s", path)
	}
	if len(records) == 0 {
		return nil, eris.Errorf("ingest: csv %s is empty", path)
	}

	return table.New(records[0], records[1:]), nil
}
