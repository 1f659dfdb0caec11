package storage

import (
	"context"
	"fmt"
	"image"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	apperrors "go-reveal-quiz/internal/errors"
)

// BlobStorage retrieves quiz images from Azure Blob Storage. The blob URL
// format is https://host/container?blob=name.
type BlobStorage interface {
	GetImage(ctx context.Context, blobURL string) (image.Image, error)
}

type azureStorage struct {
	client *azblob.Client
}

// NewAzureStorage creates a blob-backed image source with shared key
// credentials.
func NewAzureStorage(accountName string, accountKey string) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureStorage{client: client}, nil
}

func (s *azureStorage) GetImage(ctx context.Context, blobURL string) (image.Image, error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid blob URL", err)
	}
	if parsedURL.Path == "" || parsedURL.Path == "/" {
		return nil, apperrors.NewValidationError("blob URL missing container", nil)
	}

	containerName := parsedURL.Path[1:] // Remove leading slash
	blobName := parsedURL.Query().Get("blob")
	if blobName == "" {
		return nil, apperrors.NewValidationError("blob URL missing blob query parameter", nil)
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, apperrors.NewNotFoundError("blob download failed", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	img, _, err := image.Decode(retryReader)
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to decode blob image", err)
	}
	return img, nil
}
