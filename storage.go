package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/disintegration/imaging"
)

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// uploadToS3 puts a PNG at key. Without a bucket configured the upload is
// skipped.
func (s *Server) uploadToS3(ctx context.Context, data []byte, key string) error {
	if s.s3Uploader == nil {
		log.Printf("Skipping upload of %s, no bucket configured", key)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := s.s3Uploader.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Printf("Uploaded %s to S3 (%d bytes)", key, size)
	return nil
}

// publishFrames uploads every frame the interactive tracer finishes to
// live/<job>.png until ctx is done.
func (s *Server) publishFrames(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-s.tracer.Updates():
			log.Printf("Trace %s finished in %v", f.JobID, f.Elapsed)
			data, err := f.Image.PNG()
			if err != nil {
				log.Printf("Failed to encode frame %s: %v", f.JobID, err)
				continue
			}
			if err := s.uploadToS3(ctx, data, path.Join("live", f.JobID+".png")); err != nil {
				log.Printf("Live upload failed: %v", err)
			}
		}
	}
}
