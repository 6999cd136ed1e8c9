package records

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the slice of the S3 API the loader needs. *s3.Client
// satisfies it.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadS3 downloads the customer CSV from S3 at startup and parses it into a
// store. The object is read once; there is no refresh loop.
func LoadS3(ctx context.Context, client ObjectGetter, bucket, key string) (*Store, error) {
	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting s3://%s/%s: %w", bucket, key, err)
	}
	defer result.Body.Close()

	columns, recs, err := ReadRecords(result.Body)
	if err != nil {
		return nil, fmt.Errorf("parse s3://%s/%s: %w", bucket, key, err)
	}

	store := NewStore(columns, recs, fmt.Sprintf("s3://%s/%s", bucket, key))
	log.Printf("RecordStore: loaded %d records from s3://%s/%s", store.Len(), bucket, key)
	return store, nil
}
