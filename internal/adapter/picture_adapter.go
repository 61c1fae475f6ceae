package adapter

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

// ErrUnsupportedPicture is returned for uploads that are not a decodable jpg or png.
var ErrUnsupportedPicture = errors.New("unsupported picture: only jpg and png are accepted")

// PictureStore persists picture blobs under a flat name.
type PictureStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) error
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// ProfilePictures resizes uploads and manages their lifecycle on a PictureStore.
type ProfilePictures struct {
	store     PictureStore
	maxWidth  int
	maxHeight int
	newName   func() string
}

// NewProfilePictures creates a ProfilePictures that fits images into maxWidth x maxHeight.
func NewProfilePictures(store PictureStore, maxWidth, maxHeight int) *ProfilePictures {
	return &ProfilePictures{store: store, maxWidth: maxWidth, maxHeight: maxHeight, newName: uuid.NewString}
}

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Store decodes a data URL (or bare base64), resizes it and returns the new asset ref.
// filename is only used for its extension and may be empty.
func (p *ProfilePictures) Store(ctx context.Context, dataURL, filename string) (string, error) {
	data, mimeType, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = extensionFor(mimeType)
	}
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return "", ErrUnsupportedPicture
	}
	resized, err := resizePicture(data, ext, p.maxWidth, p.maxHeight)
	if err != nil {
		return "", err
	}
	ref := p.newName() + ext
	if err := p.store.Put(ctx, ref, contentType, resized); err != nil {
		return "", fmt.Errorf("failed to store picture: %w", err)
	}
	return ref, nil
}

// Delete removes ref unless it is the shared default picture.
func (p *ProfilePictures) Delete(ctx context.Context, ref string) error {
	if ref == "" || ref == domain.DefaultImageRef {
		return nil
	}
	return p.store.Delete(ctx, ref)
}

// URL resolves ref to a public address.
func (p *ProfilePictures) URL(ref string) string {
	if ref == "" {
		ref = domain.DefaultImageRef
	}
	return p.store.URL(ref)
}

// DecodeDataURL accepts "data:<mime>;base64,<payload>" or a bare base64 payload.
func DecodeDataURL(s string) ([]byte, string, error) {
	mimeType := ""
	payload := s
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx == -1 {
			return nil, "", ErrUnsupportedPicture
		}
		meta := s[len("data:"):idx]
		payload = s[idx+1:]
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", ErrUnsupportedPicture
		}
		mimeType = strings.TrimSuffix(meta, ";base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedPicture, err)
	}
	return data, mimeType, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	default:
		return ""
	}
}
