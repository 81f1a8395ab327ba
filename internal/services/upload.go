package services

import (
	"encoding/base64"
	"fmt"
	"strings"

	"amethyst/internal/apperrors"

	"github.com/gabriel-vasile/mimetype"
)

// allowedPictureTypes are the MIME types accepted for profile pictures.
var allowedPictureTypes = []string{"image/jpeg", "image/png", "image/gif"}

// Upload is an uploaded file read fully into memory.
type Upload struct {
	Filename    string
	ContentType string // as declared by the client, may be empty
	Size        int64
	Data        []byte
}

// validatePicture applies the size and MIME rules to an uploaded picture.
// The declared content type is used when present; otherwise the type is
// sniffed from the bytes.
func validatePicture(u *Upload, maxBytes int64) error {
	size := u.Size
	if size == 0 {
		size = int64(len(u.Data))
	}
	if size > maxBytes {
		return apperrors.Validation(fmt.Sprintf("File too large. Maximum size is %s", formatBytes(maxBytes)))
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(u.ContentType, ";", 2)[0]))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType, _ = sniffPictureType(u.Data)
	}
	for _, t := range allowedPictureTypes {
		if contentType == t {
			return nil
		}
	}
	return apperrors.Validation("Invalid file type. Only JPEG, PNG and GIF are allowed.")
}

// sniffPictureType reports which allowed picture type data looks like.
func sniffPictureType(data []byte) (string, bool) {
	detected := mimetype.Detect(data)
	for _, t := range allowedPictureTypes {
		if detected.Is(t) {
			return t, true
		}
	}
	return "", false
}

// pictureDataURI encodes a stored picture as a data URI. Bytes that are not
// a recognizable JPEG, PNG or GIF are labelled image/jpeg.
func pictureDataURI(data []byte) string {
	mediaType, ok := sniffPictureType(data)
	if !ok {
		mediaType = "image/jpeg"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func formatBytes(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
