package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/nihil-template/nihil-auth/internal/server/config"
	"github.com/nihil-template/nihil-auth/internal/server/models"
	"github.com/nihil-template/nihil-auth/internal/server/repositories/repomanager"
)

// seams for the AWS SDK, overridable in tests
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// UserService exposes the user directory and profile management, including
// profile-image storage via presigned S3 URLs: the browser uploads directly
// to object storage and only the key passes through this service.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		config:      cfg,
	}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// List returns one page of live accounts. Page numbers start at 1; zero or
// negative paging values fall back to the first page with the default size.
func (s *UserService) List(ctx context.Context, page, limit int) ([]*models.Account, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if page <= 0 {
		page = 1
	}
	return s.repomanager.Accounts(s.db).List(ctx, limit, (page-1)*limit)
}

// GetByID returns the live account with the given id, or ErrorNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).GetByID(ctx, id)
}

// GetByEmail returns the live account registered under email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
}

// UpdateProfile replaces the display name and bio.
func (s *UserService) UpdateProfile(ctx context.Context, id string, name string, bio *string) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).UpdateProfile(ctx, id, name, bio)
}

// AttachProfileImage records the storage key of an uploaded profile image.
func (s *UserService) AttachProfileImage(ctx context.Context, id string, key string) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).UpdateProfileImage(ctx, id, key)
}

// NewProfileImageKey makes a collision-free storage key for a fresh upload.
func NewProfileImageKey() string {
	d := time.Now()
	return fmt.Sprintf("profiles/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *UserService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// ProfileImageUploadURL returns a fresh storage key and a presigned PUT URL
// the client uploads the image to. The key is attached to the account with
// AttachProfileImage once the upload completes.
func (s *UserService) ProfileImageUploadURL(ctx context.Context) (string, string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := NewProfileImageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// ProfileImageURL returns a presigned GET URL for a stored profile image key.
func (s *UserService) ProfileImageURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
