package converter

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/m-mizutani/redload/internal"
	"github.com/m-mizutani/redload/pkg/models"
	"github.com/pkg/errors"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

var logger = internal.Logger

const (
	// About parquet format: https://parquet.apache.org/documentation/latest/
	parquetRowGroupSize = 16 * 1024 * 1024 // 16M
)

type parquetSchema struct {
	Tag    string          `json:"Tag"`
	Fields []parquetColumn `json:"Fields"`
}

type parquetColumn struct {
	Tag string `json:"Tag"`
}

// buildSchema derives the parquet schema from coerced records: ruled
// columns get their declared type, the rest keep the type inferred from
// the first non-null value. All columns are OPTIONAL.
func buildSchema(records []models.Record, rules ColumnRules) (string, map[string]string, error) {
	types := map[string]string{}
	schema := parquetSchema{
		Tag: "name=parquet_go_root, repetitiontype=REQUIRED",
	}

	for _, name := range columns(records) {
		t := columnType(records, name, rules)
		types[name] = t
		schema.Fields = append(schema.Fields, parquetColumn{
			Tag: fmt.Sprintf("name=%s, type=%s, repetitiontype=OPTIONAL", name, t),
		})
	}

	raw, err := json.Marshal(&schema)
	if err != nil {
		return "", nil, errors.Wrap(err, "Fail to marshal parquet schema")
	}

	return string(raw), types, nil
}

func columnType(records []models.Record, name string, rules ColumnRules) string {
	if rule, ok := rules[name]; ok {
		switch rule {
		case ColumnInt32:
			return "INT32"
		case ColumnTimestamp:
			return "TIMESTAMP_MILLIS"
		}
	}

	for _, record := range records {
		switch record[name].(type) {
		case nil:
			continue
		case string:
			return "UTF8"
		case float64:
			return "DOUBLE"
		case bool:
			return "BOOLEAN"
		default:
			// Nested object or array is stored as its JSON text.
			return "UTF8"
		}
	}

	return "UTF8"
}

// renderRow serializes one record into the JSON line the parquet JSON
// writer accepts. Non-string values of UTF8 columns are stored as JSON
// text.
func renderRow(record models.Record, types map[string]string) (string, error) {
	row := map[string]interface{}{}
	for name, value := range record {
		if types[name] == "UTF8" && value != nil {
			if _, ok := value.(string); !ok {
				raw, err := json.Marshal(value)
				if err != nil {
					return "", errors.Wrapf(err, "Fail to marshal column '%s'", name)
				}
				row[name] = string(raw)
				continue
			}
		}
		row[name] = value
	}

	raw, err := json.Marshal(row)
	if err != nil {
		return "", errors.Wrap(err, "Fail to marshal parquet row")
	}

	return string(raw), nil
}

// WriteParquet writes coerced records to a local parquet file.
func WriteParquet(outputPath string, records []models.Record, rules ColumnRules) error {
	schema, types, err := buildSchema(records, rules)
	if err != nil {
		return err
	}

	fw, err := local.NewLocalFileWriter(outputPath)
	if err != nil {
		return errors.Wrapf(err, "Fail to create a parquet file: %s", outputPath)
	}
	defer fw.Close()

	pw, err := writer.NewJSONWriter(schema, fw, 4)
	if err != nil {
		return errors.Wrap(err, "Fail to create a parquet writer")
	}
	pw.RowGroupSize = parquetRowGroupSize
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, record := range records {
		row, err := renderRow(record, types)
		if err != nil {
			return err
		}
		if err := pw.Write(row); err != nil {
			return errors.Wrap(err, "Fail to write a parquet row")
		}
	}

	if err := pw.WriteStop(); err != nil {
		return errors.Wrap(err, "Fail to finalize a parquet file")
	}

	logger.WithField("output", outputPath).Info("Wrote parquet file")
	return nil
}

// ConvertFile reads a local JSON file, applies column rules and writes a
// parquet file.
func ConvertFile(inputPath, outputPath string, rules ColumnRules) error {
	raw, err := ioutil.ReadFile(inputPath)
	if err != nil {
		return errors.Wrapf(err, "Fail to read input file: %s", inputPath)
	}

	records, err := DecodeRecords(raw)
	if err != nil {
		return err
	}

	coerced, err := CoerceRecords(records, rules)
	if err != nil {
		return err
	}

	return WriteParquet(outputPath, coerced, rules)
}
