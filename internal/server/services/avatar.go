package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/thecollekta/airbnb-clone-project/internal/common"
	sc "github.com/thecollekta/airbnb-clone-project/internal/server/config"
	"github.com/thecollekta/airbnb-clone-project/internal/server/repositories/accounts"
)

// Seams for testing the presign flow without network access.
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

// AvatarService hands out presigned URLs for profile pictures stored in an
// S3-compatible backend. The server never proxies image bytes.
type AvatarService struct {
	repo   accounts.Repository
	config *sc.Config
}

func NewAvatarService(repo accounts.Repository, config *sc.Config) *AvatarService {
	return &AvatarService{
		repo:   repo,
		config: config,
	}
}

func avatarStorageKey(accountID string) string {
	d := time.Now()
	return fmt.Sprintf("avatars/%d/%d/%d/%s/%v", d.Year(), d.Month(), d.Day(), accountID, uuid.New())
}

func (s *AvatarService) getPresignClient() (*s3.PresignClient, error) {
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

// GetUploadURL presigns a PUT for a fresh storage key, records the key on
// the account, and returns both. The caller uploads the image directly.
func (s *AvatarService) GetUploadURL(ctx context.Context, accountID string) (string, string, error) {

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return "", "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := avatarStorageKey(account.ID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))

	if err != nil {
		return "", "", err
	}

	account.AvatarKey = key
	if _, err := s.repo.Update(ctx, account); err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// GetDownloadURL presigns a GET for the account's current avatar.
// Accounts without an avatar yield common.ErrorNotFound.
func (s *AvatarService) GetDownloadURL(ctx context.Context, accountID string) (string, error) {

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	if account.AvatarKey == "" {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &account.AvatarKey,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
