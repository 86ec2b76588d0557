// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsplit

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client an S3Sink needs.
type S3API interface {
	CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error)
	UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error)
	CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error)
	AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error)
}

const (
	s3MinPartSize     = 5 << 20
	s3DefaultPartSize = 32 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// S3Sink is a Sink that streams a segment to S3 as a multipart upload.
// Close completes the upload; on failure the upload is aborted so no
// partial object claims completeness.
type S3Sink struct {
	client   S3API
	ctx      context.Context
	bucket   string
	key      string
	uploadID *string
	buffer   bytes.Buffer
	partSize int
	partNum  int32
	parts    []types.CompletedPart
}

var _ = Sink((*S3Sink)(nil))

// NewS3Sink initiates a multipart upload of bucket/key. partSize below
// the S3 minimum (5 MiB) selects the default 32 MiB.
func NewS3Sink(ctx context.Context, client S3API, bucket, key string, partSize int) (*S3Sink, error) {
	if partSize < s3MinPartSize {
		partSize = s3DefaultPartSize
	}
	sink := &S3Sink{
		client: client, ctx: ctx,
		bucket: bucket, key: key,
		partSize: partSize, partNum: 1,
	}
	out, err := client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(xlsxContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("create multipart upload s3://%s/%s: %w", bucket, key, err)
	}
	sink.uploadID = out.UploadId
	return sink, nil
}

func (s *S3Sink) Write(p []byte) (int, error) {
	n, err := s.buffer.Write(p)
	if err != nil {
		return n, err
	}
	if s.buffer.Len() >= s.partSize {
		if err = s.uploadPart(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (s *S3Sink) Close() error {
	// S3 rejects completing an upload with zero parts, so a sink that
	// never received a byte still uploads one empty part.
	if s.buffer.Len() > 0 || len(s.parts) == 0 {
		if err := s.uploadPart(); err != nil {
			_ = s.Abort()
			return err
		}
	}
	_, err := s.client.CompleteMultipartUpload(s.ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(s.bucket),
		Key:             aws.String(s.key),
		UploadId:        s.uploadID,
		MultipartUpload: &types.CompletedMultipartUpload{Parts: s.parts},
	})
	if err != nil {
		_ = s.Abort()
		return fmt.Errorf("complete multipart upload s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

// Abort cancels the multipart upload.
func (s *S3Sink) Abort() error {
	if s.uploadID == nil {
		return nil
	}
	_, err := s.client.AbortMultipartUpload(s.ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(s.key),
		UploadId: s.uploadID,
	})
	return err
}

func (s *S3Sink) uploadPart() error {
	out, err := s.client.UploadPart(s.ctx, &s3.UploadPartInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(s.key),
		UploadId:   s.uploadID,
		PartNumber: aws.Int32(s.partNum),
		Body:       bytes.NewReader(s.buffer.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("upload part %d: %w", s.partNum, err)
	}
	s.parts = append(s.parts, types.CompletedPart{
		ETag:       out.ETag,
		PartNumber: aws.Int32(s.partNum),
	})
	s.buffer.Reset()
	s.partNum++
	return nil
}
