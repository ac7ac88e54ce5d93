package converter

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/redload/pkg/models"
	"github.com/pkg/errors"
)

// ColumnType is target primitive type of a column rule.
type ColumnType int

const (
	// ColumnInt32 narrows a numeric or numeric-string value to 32bit
	// integer, matching Redshift INT (4 bytes).
	ColumnInt32 ColumnType = iota + 1
	// ColumnTimestamp parses a string or epoch-seconds value into a
	// timestamp, stored as epoch milliseconds.
	ColumnTimestamp
)

// ColumnRules maps column name to target type. Columns without a rule
// keep their inferred type; rules for columns absent from the data are
// skipped.
type ColumnRules map[string]ColumnType

// DefaultRules matches the staging/final table schema of the load plan.
var DefaultRules = ColumnRules{
	"id":         ColumnInt32,
	"age":        ColumnInt32,
	"created_at": ColumnTimestamp,
}

// ErrSchemaCoercion is the cause of all failures to apply a declared
// column rule to actual data.
var ErrSchemaCoercion = errors.New("column value can not be coerced to declared type")

// timestampLayouts are tried in order for string timestamp values.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DecodeRecords parses raw JSON into a record slice. A single top-level
// object becomes a one-element slice.
func DecodeRecords(raw []byte) ([]models.Record, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "Fail to parse input JSON")
	}

	switch v := doc.(type) {
	case map[string]interface{}:
		return []models.Record{models.Record(v)}, nil

	case []interface{}:
		records := make([]models.Record, 0, len(v))
		for i, elem := range v {
			obj, ok := elem.(map[string]interface{})
			if !ok {
				return nil, errors.Errorf("Record %d is not a JSON object", i)
			}
			records = append(records, models.Record(obj))
		}
		return records, nil

	default:
		return nil, errors.New("Input JSON must be an object or an array of objects")
	}
}

// CoerceRecords applies column rules to all records and returns coerced
// copies. A rule is applied only where the column occurs; columns
// declared in rules but absent from every record are skipped silently.
func CoerceRecords(records []models.Record, rules ColumnRules) ([]models.Record, error) {
	coerced := make([]models.Record, 0, len(records))

	for i, record := range records {
		out := models.Record{}
		for name, value := range record {
			rule, ok := rules[name]
			if !ok || value == nil {
				out[name] = value
				continue
			}

			v, err := coerceValue(value, rule)
			if err != nil {
				return nil, errors.Wrapf(err, "Fail to coerce column '%s' of record %d", name, i)
			}
			out[name] = v
		}
		coerced = append(coerced, out)
	}

	return coerced, nil
}

func coerceValue(value interface{}, rule ColumnType) (interface{}, error) {
	switch rule {
	case ColumnInt32:
		return coerceInt32(value)
	case ColumnTimestamp:
		ts, err := ParseTimestamp(value)
		if err != nil {
			return nil, err
		}
		return ts.UnixNano() / int64(time.Millisecond), nil
	}

	return nil, errors.Wrapf(ErrSchemaCoercion, "unknown column rule: %d", rule)
}

func coerceInt32(value interface{}) (int32, error) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
			return 0, errors.Wrapf(ErrSchemaCoercion, "number is out of int32 range: %f", v)
		}
		return int32(v), nil

	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return 0, errors.Wrapf(ErrSchemaCoercion, "not a numeric string: %s", v)
		}
		return int32(n), nil
	}

	return 0, errors.Wrapf(ErrSchemaCoercion, "unsupported value type for int32: %T", value)
}

// ParseTimestamp converts a string or epoch-seconds numeric value into a
// timestamp.
func ParseTimestamp(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case string:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, errors.Wrapf(ErrSchemaCoercion, "not a timestamp string: %s", v)

	case float64:
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC(), nil
	}

	return time.Time{}, errors.Wrapf(ErrSchemaCoercion, "unsupported value type for timestamp: %T", value)
}

// columns returns all column names over the records in sorted order, for
// a deterministic parquet schema.
func columns(records []models.Record) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, record := range records {
		for name := range record {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names
}
