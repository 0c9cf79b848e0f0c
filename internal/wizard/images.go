package wizard

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/joramcars/dealership-web/pkg/backend"
	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
)

// MaxImages caps the photos attached to one sell request.
const MaxImages = 3

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// Upload is a file picked by the seller.
type Upload struct {
	Filename string
	Data     []byte
}

// Image is an accepted photo held by the live wizard.
type Image struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	data        []byte
}

func (img Image) upload() backend.Upload {
	return backend.Upload{Filename: img.Filename, ContentType: img.ContentType, Data: img.data}
}

// sniffImages checks every upload before any is accepted.
func sniffImages(files []Upload) ([]Image, error) {
	out := make([]Image, 0, len(files))
	for i, file := range files {
		if len(file.Data) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file %d is empty", i+1))
		}
		detected := mimetype.Detect(file.Data)
		if !mimetype.EqualsAny(detected.String(), allowedImageTypes...) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "only JPEG, PNG, WebP or GIF photos are accepted").
				WithDetails(map[string]string{"filename": file.Filename, "content_type": detected.String()})
		}
		out = append(out, Image{
			ID:          uuid.NewString(),
			Filename:    file.Filename,
			ContentType: detected.String(),
			Size:        len(file.Data),
			data:        file.Data,
		})
	}
	return out, nil
}
