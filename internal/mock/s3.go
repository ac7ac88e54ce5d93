package mock

import (
	"bytes"
	"errors"
	"io/ioutil"

	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/m-mizutani/redload/internal/adaptor"
)

// S3Client is on memory S3Client mock. GetCount and PutCount record the
// number of API calls for assertions.
type S3Client struct {
	data     map[string]map[string][]byte
	GetCount int
	PutCount int
}

// NewS3Client is constructor of S3 mock
func NewS3Client() *S3Client {
	return &S3Client{
		data: map[string]map[string][]byte{},
	}
}

// Factory returns S3ClientFactory that always returns the mock itself.
func (x *S3Client) Factory() adaptor.S3ClientFactory {
	return func(region string) adaptor.S3Client { return x }
}

// Seed stores an object directly without changing call counters.
func (x *S3Client) Seed(bucket, key string, body []byte) {
	bkt, ok := x.data[bucket]
	if !ok {
		bkt = map[string][]byte{}
		x.data[bucket] = bkt
	}
	bkt[key] = body
}

// Stored returns an object body directly without changing call counters.
func (x *S3Client) Stored(bucket, key string) ([]byte, bool) {
	bkt, ok := x.data[bucket]
	if !ok {
		return nil, false
	}
	obj, ok := bkt[key]
	return obj, ok
}

// GetObject of S3Client loads []bytes from memory
func (x *S3Client) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	x.GetCount++

	bucket, ok := x.data[*input.Bucket]
	if !ok {
		return nil, errors.New(s3.ErrCodeNoSuchKey)
	}
	obj, ok := bucket[*input.Key]
	if !ok {
		return nil, errors.New(s3.ErrCodeNoSuchKey)
	}

	return &s3.GetObjectOutput{
		Body: ioutil.NopCloser(bytes.NewReader(obj)),
	}, nil
}

// PutObject of S3Client saves []bytes to memory
func (x *S3Client) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	x.PutCount++

	raw, err := ioutil.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}

	x.Seed(*input.Bucket, *input.Key, raw)

	return &s3.PutObjectOutput{}, nil
}
