package service

import (
	"bytes"
	"io/ioutil"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/m-mizutani/redload/internal/adaptor"
	"github.com/m-mizutani/redload/pkg/models"
	"github.com/pkg/errors"
)

// S3Service is accessor to S3
type S3Service struct {
	newS3 adaptor.S3ClientFactory
}

// NewS3Service is constructor of S3Service
func NewS3Service(newS3 adaptor.S3ClientFactory) *S3Service {
	return &S3Service{
		newS3: newS3,
	}
}

// Download fetches whole body of the object.
func (x *S3Service) Download(src models.S3Object) ([]byte, error) {
	client := x.newS3(src.Region)
	output, err := client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(src.Bucket),
		Key:    aws.String(src.Key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to download a S3 object: %s/%s", src.Bucket, src.Key)
	}
	defer output.Body.Close()

	raw, err := ioutil.ReadAll(output.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to read a S3 object body: %s/%s", src.Bucket, src.Key)
	}

	return raw, nil
}

// Upload puts body as a new object.
func (x *S3Service) Upload(dst models.S3Object, body []byte) error {
	client := x.newS3(dst.Region)
	if _, err := client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(dst.Bucket),
		Key:    aws.String(dst.Key),
		Body:   bytes.NewReader(body),
	}); err != nil {
		return errors.Wrapf(err, "Fail to upload a S3 object: %s/%s", dst.Bucket, dst.Key)
	}

	return nil
}
