package media

import (
	"context"
	"errors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

var ErrEmptyImage = errors.New("empty image payload")

// Uploader resolves a raw image payload (typically a base64 data URI sent by
// the client) into a durable URL on the media host. Only the URL is ever
// persisted.
type Uploader interface {
	Upload(ctx context.Context, image string) (string, error)
}

type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{client: client, folder: "chat"}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, image string) (string, error) {
	if image == "" {
		return "", ErrEmptyImage
	}

	resp, err := u.client.Upload.Upload(ctx, image, uploader.UploadParams{
		PublicID: uuid.NewString(),
		Folder:   u.folder,
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
