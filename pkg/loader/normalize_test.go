package loader_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/redload/internal/mock"
	"github.com/m-mizutani/redload/internal/service"
	"github.com/m-mizutani/redload/pkg/loader"
	"github.com/m-mizutani/redload/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNormalizer(s3Mock *mock.S3Client) *loader.Normalizer {
	return loader.NewNormalizer(service.NewS3Service(s3Mock.Factory()))
}

func TestNormalizeJSONArray(t *testing.T) {
	bucket := uuid.New().String()
	s3Mock := mock.NewS3Client()
	s3Mock.Seed(bucket, "data/input.json", []byte(`[{"id":1,"name":"a"},{"id":2,"name":"b"}]`))

	src := models.NewS3Object("us-east-1", bucket, "data/input.json")
	dst, err := newNormalizer(s3Mock).Normalize(src)
	require.NoError(t, err)

	assert.Equal(t, "processed/data/input.json", dst.Key)
	assert.Equal(t, bucket, dst.Bucket)
	assert.Equal(t, 1, s3Mock.PutCount)

	raw, ok := s3Mock.Stored(bucket, "processed/data/input.json")
	require.True(t, ok)
	lines := strings.Split(string(raw), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"id":1,"name":"a"}`, lines[0])
	assert.Equal(t, `{"id":2,"name":"b"}`, lines[1])
}

func TestNormalizeSingleObject(t *testing.T) {
	bucket := uuid.New().String()
	s3Mock := mock.NewS3Client()
	s3Mock.Seed(bucket, "data/one.json", []byte(`{"id": 1, "name": "a"}`))

	src := models.NewS3Object("us-east-1", bucket, "data/one.json")
	dst, err := newNormalizer(s3Mock).Normalize(src)
	require.NoError(t, err)

	assert.Equal(t, src, dst)
	assert.Equal(t, 0, s3Mock.PutCount)
}

func TestNormalizeScalarDocument(t *testing.T) {
	bucket := uuid.New().String()
	s3Mock := mock.NewS3Client()
	s3Mock.Seed(bucket, "data/scalar.json", []byte(`42`))

	src := models.NewS3Object("us-east-1", bucket, "data/scalar.json")
	dst, err := newNormalizer(s3Mock).Normalize(src)
	require.NoError(t, err)

	assert.Equal(t, src, dst)
	assert.Equal(t, 0, s3Mock.PutCount)
}

func TestNormalizeAlreadyLineDelimited(t *testing.T) {
	bucket := uuid.New().String()
	s3Mock := mock.NewS3Client()
	ndjson := `{"id":1,"name":"a"}` + "\n" + `{"id":2,"name":"b"}`
	s3Mock.Seed(bucket, "data/lines.json", []byte(ndjson))

	src := models.NewS3Object("us-east-1", bucket, "data/lines.json")
	dst, err := newNormalizer(s3Mock).Normalize(src)
	require.NoError(t, err)

	assert.Equal(t, src, dst)
	assert.Equal(t, 0, s3Mock.PutCount)
}

func TestNormalizeMissingObject(t *testing.T) {
	s3Mock := mock.NewS3Client()

	src := models.NewS3Object("us-east-1", uuid.New().String(), "nowhere.json")
	_, err := newNormalizer(s3Mock).Normalize(src)
	assert.Error(t, err)
	assert.Equal(t, 0, s3Mock.PutCount)
}

func TestNormalizeWithRecordFilter(t *testing.T) {
	bucket := uuid.New().String()
	s3Mock := mock.NewS3Client()
	s3Mock.Seed(bucket, "data/input.json", []byte(`[{"id":1,"name":"a"},{"id":2,"name":"b"}]`))

	norm := newNormalizer(s3Mock)
	require.NoError(t, norm.SetFilter(`{id: .id}`))

	src := models.NewS3Object("us-east-1", bucket, "data/input.json")
	dst, err := norm.Normalize(src)
	require.NoError(t, err)

	raw, ok := s3Mock.Stored(dst.Bucket, dst.Key)
	require.True(t, ok)
	assert.Equal(t, `{"id":1}`+"\n"+`{"id":2}`, string(raw))
}

func TestNormalizeInvalidFilter(t *testing.T) {
	norm := newNormalizer(mock.NewS3Client())
	assert.Error(t, norm.SetFilter(`{invalid`))
}
