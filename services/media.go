package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rpupo63/baglist-backend/errs"
)

// coverExtensions maps the accepted cover image content types to file extensions.
var coverExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// PresignedUpload describes a direct-to-storage upload the client performs itself.
type PresignedUpload struct {
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Key       string            `json:"key"`
	PublicURL string            `json:"public_url"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresIn int64             `json:"expires_in"`
}

// Presigner signs object uploads.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string) (*PresignedUpload, error)
}

// S3Presigner presigns PUT requests against one bucket.
type S3Presigner struct {
	client        *s3.PresignClient
	bucket        string
	region        string
	publicBaseURL string
	ttl           time.Duration
}

// NewS3Presigner builds a presigner for bucket. publicBaseURL is the CDN or bucket URL that
// serves uploaded objects; when empty the virtual-hosted bucket URL is used.
func NewS3Presigner(cfg sdkaws.Config, bucket, publicBaseURL string, ttl time.Duration) *S3Presigner {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.BaseEndpoint != nil
	})
	return &S3Presigner{
		client:        s3.NewPresignClient(client),
		bucket:        bucket,
		region:        cfg.Region,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		ttl:           ttl,
	}
}

func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string) (*PresignedUpload, error) {
	input := &s3.PutObjectInput{
		Bucket:      &p.bucket,
		Key:         &key,
		ContentType: &contentType,
	}

	presigned, err := p.client.PresignPutObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = p.ttl
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign put object: %w", err)
	}

	headers := make(map[string]string)
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	return &PresignedUpload{
		UploadURL: presigned.URL,
		Method:    presigned.Method,
		Key:       key,
		PublicURL: p.publicURL(key),
		Headers:   headers,
		ExpiresIn: int64(p.ttl.Seconds()),
	}, nil
}

func (p *S3Presigner) publicURL(key string) string {
	if p.publicBaseURL != "" {
		return p.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key)
}

// PresignCoverUpload returns a presigned upload for a new cover image of an owned list.
// The client stores the returned public URL through UpdateBagList once the upload succeeds.
func (s *Service) PresignCoverUpload(ctx context.Context, actor Actor, baglistID uuid.UUID, contentType string) (*PresignedUpload, error) {
	baglist, err := ownedBagList(ctx, s.store, actor, baglistID)
	if err != nil {
		return nil, err
	}
	ext, ok := coverExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, errs.NewInvalidFieldError("content_type", "must be image/jpeg, image/png or image/webp")
	}
	if s.media == nil {
		return nil, errs.NewServiceUnavailableError("media storage", nil)
	}

	name, err := gonanoid.New()
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("could not generate object key", err)
	}
	key := fmt.Sprintf("covers/%s/%s/%s.%s", baglist.OwnerID, baglist.ID, name, ext)

	upload, err := s.media.PresignPut(ctx, key, strings.ToLower(strings.TrimSpace(contentType)))
	if err != nil {
		s.logger.Error().Err(err).Str("baglistID", baglist.ID.String()).Msg("Failed to presign cover upload")
		return nil, errs.NewServiceUnavailableError("media storage", err)
	}
	return upload, nil
}
