package api

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/ambyltd/guide-sub000/params"
)

// ResolveAudio returns a time-limited URL for a guide's audio asset.
//
// Anchors store the asset as "bucket/key" or bare "key" (resolved
// against AWS_BUCKETNAME). The AWS library uses environment variables
// to configure itself.
func (g *Guide) ResolveAudio(guideID string) (string, error) {
	anchor, found, err := g.POIs.GetAnchor(guideID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("no such guide %q", guideID)
	}
	if anchor.AudioS3 == "" {
		return "", fmt.Errorf("guide %q has no audio asset", guideID)
	}

	bucket, key := splitS3Ref(anchor.AudioS3)
	if bucket == "" {
		return "", fmt.Errorf("no bucket for guide %q audio (AWS_BUCKETNAME unset?)", guideID)
	}

	// All clients require a Session. The Session provides the client with
	// shared configuration such as region, endpoint, and credentials.
	sess := session.Must(session.NewSession())
	svc := s3.New(sess)

	req, _ := svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(params.AudioPresignTTL)
	if err != nil {
		return "", fmt.Errorf("presign audio for guide %q: %w", guideID, err)
	}
	g.logger.Info("Presigned audio URL", "guide", guideID, "bucket", bucket, "ttl", params.AudioPresignTTL)
	return url, nil
}

func splitS3Ref(ref string) (bucket, key string) {
	if i := strings.IndexByte(ref, '/'); i > 0 {
		return ref[:i], ref[i+1:]
	}
	return params.AWS_BUCKETNAME, ref
}
