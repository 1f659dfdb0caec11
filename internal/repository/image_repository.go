// Package repository resolves the source of a round image — local dataset,
// remote URL or Azure blob — into a decoded image plus the identity string
// the answer key derives from. The session core receives the identity
// explicitly and never touches paths or URLs itself.
package repository

import (
	"context"
	"image"
	"net/url"

	"go-reveal-quiz/internal/dataset"
	apperrors "go-reveal-quiz/internal/errors"
	"go-reveal-quiz/internal/storage"
)

// RoundImage is a decoded image together with the canonical identity string
// derived from its source.
type RoundImage struct {
	Image  image.Image
	Key    string
	Source string
}

// ImageRepository resolves round image requests against all configured
// sources.
type ImageRepository interface {
	// FromDataset loads a named file from the local dataset, or a random
	// one when name is empty.
	FromDataset(ctx context.Context, name string) (*RoundImage, error)

	// FromURL fetches an image over HTTP(S). An empty key is derived from
	// the URL's filename.
	FromURL(ctx context.Context, imageURL, key string) (*RoundImage, error)

	// FromBlob fetches an image from Azure Blob Storage. An empty key is
	// derived from the blob name.
	FromBlob(ctx context.Context, blobURL, key string) (*RoundImage, error)
}

type imageRepository struct {
	loader  *dataset.Loader
	fetcher storage.ImageFetcher
	blobs   storage.BlobStorage // nil when Azure is not configured
}

// NewImageRepository wires the configured image sources together. blobs may
// be nil; FromBlob then rejects requests.
func NewImageRepository(loader *dataset.Loader, fetcher storage.ImageFetcher, blobs storage.BlobStorage) ImageRepository {
	return &imageRepository{
		loader:  loader,
		fetcher: fetcher,
		blobs:   blobs,
	}
}

func (r *imageRepository) FromDataset(ctx context.Context, name string) (*RoundImage, error) {
	var path string
	if name == "" {
		picked, ok := r.loader.PickRandom()
		if !ok {
			return nil, apperrors.NewNotFoundError("dataset contains no images", nil)
		}
		path = picked
	} else {
		found, ok := r.loader.Find(name)
		if !ok {
			return nil, apperrors.NewNotFoundError("dataset image not found: "+name, nil)
		}
		path = found
	}

	img, err := dataset.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return &RoundImage{
		Image:  img,
		Key:    dataset.KeyFromFilename(path),
		Source: "dataset",
	}, nil
}

func (r *imageRepository) FromURL(ctx context.Context, imageURL, key string) (*RoundImage, error) {
	img, err := r.fetcher.FetchImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	if key == "" {
		key = keyFromURL(imageURL)
	}
	return &RoundImage{
		Image:  img,
		Key:    key,
		Source: "url",
	}, nil
}

func (r *imageRepository) FromBlob(ctx context.Context, blobURL, key string) (*RoundImage, error) {
	if r.blobs == nil {
		return nil, apperrors.NewValidationError("azure blob source is not configured", nil)
	}
	img, err := r.blobs.GetImage(ctx, blobURL)
	if err != nil {
		return nil, err
	}
	if key == "" {
		if parsed, err := url.Parse(blobURL); err == nil {
			key = dataset.KeyFromFilename(parsed.Query().Get("blob"))
		}
	}
	return &RoundImage{
		Image:  img,
		Key:    key,
		Source: "azure",
	}, nil
}

// keyFromURL derives an answer key from the last path segment of a URL.
func keyFromURL(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}
	return dataset.KeyFromFilename(parsed.Path)
}
