package models

import "fmt"

// S3Object points an object on a S3 bucket.
type S3Object struct {
	Region string `json:"region" dynamo:"region"`
	Bucket string `json:"bucket" dynamo:"bucket"`
	Key    string `json:"key" dynamo:"key"`
}

// NewS3Object is constructor of S3Object
func NewS3Object(region, bucket, key string) S3Object {
	return S3Object{
		Region: region,
		Bucket: bucket,
		Key:    key,
	}
}

// S3URI returns the s3:// style path that Redshift COPY accepts.
func (x S3Object) S3URI() string {
	return fmt.Sprintf("s3://%s/%s", x.Bucket, x.Key)
}
