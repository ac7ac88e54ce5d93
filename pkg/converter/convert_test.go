package converter_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/redload/pkg/converter"
	"github.com/m-mizutani/redload/pkg/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecordsArray(t *testing.T) {
	records, err := converter.DecodeRecords([]byte(`[{"id":1},{"id":2}]`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, float64(1), records[0]["id"])
}

func TestDecodeRecordsSingleObject(t *testing.T) {
	records, err := converter.DecodeRecords([]byte(`{"id":1,"name":"a"}`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0]["name"])
}

func TestDecodeRecordsRejectsScalar(t *testing.T) {
	_, err := converter.DecodeRecords([]byte(`42`))
	assert.Error(t, err)
}

func TestCoerceRecords(t *testing.T) {
	records := []models.Record{
		{"id": "7", "age": "30", "created_at": "2024-01-01T00:00:00"},
	}

	coerced, err := converter.CoerceRecords(records, converter.DefaultRules)
	require.NoError(t, err)
	require.Len(t, coerced, 1)

	assert.Equal(t, int32(7), coerced[0]["id"])
	assert.Equal(t, int32(30), coerced[0]["age"])

	expected := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, expected.UnixNano()/int64(time.Millisecond), coerced[0]["created_at"])
}

func TestCoerceRecordsNumericValues(t *testing.T) {
	records := []models.Record{
		{"id": float64(7), "age": float64(30)},
	}

	coerced, err := converter.CoerceRecords(records, converter.DefaultRules)
	require.NoError(t, err)
	assert.Equal(t, int32(7), coerced[0]["id"])
	assert.Equal(t, int32(30), coerced[0]["age"])
}

func TestCoerceRecordsAbsentRuleColumn(t *testing.T) {
	// created_at is declared in rules but absent from the data: no error,
	// the column is simply not there.
	records := []models.Record{
		{"id": float64(1), "name": "a"},
	}

	coerced, err := converter.CoerceRecords(records, converter.DefaultRules)
	require.NoError(t, err)
	assert.Equal(t, "a", coerced[0]["name"])
	_, ok := coerced[0]["created_at"]
	assert.False(t, ok)
}

func TestCoerceRecordsInvalidInt(t *testing.T) {
	records := []models.Record{
		{"id": "not-a-number"},
	}

	_, err := converter.CoerceRecords(records, converter.DefaultRules)
	require.Error(t, err)
	assert.Equal(t, converter.ErrSchemaCoercion, errors.Cause(err))
}

func TestCoerceRecordsInvalidTimestamp(t *testing.T) {
	records := []models.Record{
		{"created_at": "yesterday-ish"},
	}

	_, err := converter.CoerceRecords(records, converter.DefaultRules)
	require.Error(t, err)
	assert.Equal(t, converter.ErrSchemaCoercion, errors.Cause(err))
}

func TestParseTimestampFormats(t *testing.T) {
	cases := []interface{}{
		"2024-01-01T00:00:00Z",
		"2024-01-01T00:00:00",
		"2024-01-01 00:00:00",
		"2024-01-01",
		float64(1704067200),
	}

	expected := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, v := range cases {
		ts, err := converter.ParseTimestamp(v)
		require.NoError(t, err)
		assert.True(t, ts.Equal(expected), "value: %v", v)
	}
}

func TestConvertFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "pqconv")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.json")
	output := filepath.Join(dir, "output.parquet")
	body := `[{"id":"7","name":"a","age":"30","created_at":"2024-01-01T00:00:00"},` +
		`{"id":8,"name":"b","age":31,"created_at":"2024-01-02"}]`
	require.NoError(t, ioutil.WriteFile(input, []byte(body), 0644))

	require.NoError(t, converter.ConvertFile(input, output, converter.DefaultRules))

	stat, err := os.Stat(output)
	require.NoError(t, err)
	assert.True(t, stat.Size() > 0)
}

func TestConvertFileCoercionFailure(t *testing.T) {
	dir, err := ioutil.TempDir("", "pqconv")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.json")
	output := filepath.Join(dir, "output.parquet")
	require.NoError(t, ioutil.WriteFile(input, []byte(`[{"id":"x"}]`), 0644))

	err = converter.ConvertFile(input, output, converter.DefaultRules)
	require.Error(t, err)
	assert.Equal(t, converter.ErrSchemaCoercion, errors.Cause(err))
}

func TestConvertFileMissingInput(t *testing.T) {
	err := converter.ConvertFile("/no/such/file.json", "/tmp/never.parquet", converter.DefaultRules)
	assert.Error(t, err)
}
