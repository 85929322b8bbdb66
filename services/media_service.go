package services

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/mindboosthq/mindboost-api/config"
	"github.com/mindboosthq/mindboost-api/db"
	apiError "github.com/mindboosthq/mindboost-api/errors"
	"github.com/nfnt/resize"
)

const maxUploadSize = 20 * 1024 * 1024 // 20 MB

var supportedUploadTypes = map[string]bool{
	".png":  true,
	".jpeg": true,
	".jpg":  true,
	".pdf":  true,
	".mp4":  true,
	".mp3":  true,
}

type MediaService interface {
	UploadCourseMaterial(ctx context.Context, fileHeader *multipart.FileHeader, courseID uint) (string, error)
	UploadProfileImage(ctx context.Context, fileHeader *multipart.FileHeader, userID uint) (string, error)
}

type mediaService struct {
	Config   *config.Config
	authRepo db.AuthRepository
}

func NewMediaService(authRepo db.AuthRepository, conf *config.Config) MediaService {
	return &mediaService{
		Config:   conf,
		authRepo: authRepo,
	}
}

func (m *mediaService) s3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx,
		awsConfig.WithRegion(m.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func (m *mediaService) putObject(ctx context.Context, key string, body *bytes.Reader, contentType string) (string, error) {
	client, err := m.s3Client(ctx)
	if err != nil {
		return "", err
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.Config.AwsBucketName),
		Key:         aws.String(key),
		Body:        body,
		ACL:         "public-read",
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Config.AwsBucketName, m.Config.AwsRegion, key), nil
}

// UploadCourseMaterial streams a lesson file into the media bucket and
// returns its public URL
func (m *mediaService) UploadCourseMaterial(ctx context.Context, fileHeader *multipart.FileHeader, courseID uint) (string, error) {
	if fileHeader.Size > maxUploadSize {
		return "", apiError.New("file exceeds the maximum allowed size", http.StatusBadRequest)
	}
	extension := filepath.Ext(fileHeader.Filename)
	if !supportedUploadTypes[extension] {
		return "", apiError.New("unsupported file type", http.StatusBadRequest)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", apiError.ErrBadRequest
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(file); err != nil {
		return "", apiError.ErrInternalServerError
	}

	key := fmt.Sprintf("courses/%d/%s%s", courseID, uuid.NewString(), extension)
	url, err := m.putObject(ctx, key, bytes.NewReader(buf.Bytes()), fileHeader.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("UploadCourseMaterial error: %v", err)
		return "", apiError.ErrInternalServerError
	}
	return url, nil
}

// UploadProfileImage resizes the image to a square avatar, uploads it
// and records the URL on the user
func (m *mediaService) UploadProfileImage(ctx context.Context, fileHeader *multipart.FileHeader, userID uint) (string, error) {
	extension := filepath.Ext(fileHeader.Filename)
	if extension != ".png" && extension != ".jpg" && extension != ".jpeg" {
		return "", apiError.New("profile image must be png or jpeg", http.StatusBadRequest)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", apiError.ErrBadRequest
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		log.Printf("UploadProfileImage decode error: %v", err)
		return "", apiError.New("could not decode image", http.StatusBadRequest)
	}

	square := imaging.Fill(img, 400, 400, imaging.Center, imaging.Lanczos)
	avatar := resize.Resize(200, 0, square, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, avatar, nil); err != nil {
		log.Printf("UploadProfileImage encode error: %v", err)
		return "", apiError.ErrInternalServerError
	}

	key := fmt.Sprintf("avatars/%d_%s.jpg", userID, uuid.NewString())
	url, err := m.putObject(ctx, key, bytes.NewReader(buf.Bytes()), "image/jpeg")
	if err != nil {
		log.Printf("UploadProfileImage error: %v", err)
		return "", apiError.ErrInternalServerError
	}

	if err := m.authRepo.UpsertUserImage(userID, url); err != nil {
		log.Printf("UploadProfileImage error saving url: %v", err)
		return "", apiError.ErrInternalServerError
	}
	return url, nil
}
