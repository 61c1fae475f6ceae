package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// blobAPI is the subset of *azblob.Client used here.
type blobAPI interface {
	UploadStream(ctx context.Context, containerName, blobName string, body io.Reader, o *azblob.UploadStreamOptions) (azblob.UploadStreamResponse, error)
	DeleteBlob(ctx context.Context, containerName, blobName string, o *azblob.DeleteBlobOptions) (azblob.DeleteBlobResponse, error)
}

type azureBlobPictureStore struct {
	client    blobAPI
	container string
	baseURL   string
}

// NewAzureBlobPictureStore connects with a connection string and makes sure the
// container exists with public blob read access.
func NewAzureBlobPictureStore(ctx context.Context, connectionString, container string) (PictureStore, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	_, err = client.CreateContainer(ctx, container, &azblob.CreateContainerOptions{
		Access: to.Ptr(azblob.PublicAccessTypeBlob),
	})
	if err != nil {
		var respErr *azcore.ResponseError
		if !(errors.As(err, &respErr) && respErr.ErrorCode == string(bloberror.ContainerAlreadyExists)) {
			return nil, fmt.Errorf("failed to create container: %w", err)
		}
	}
	return newAzureBlobPictureStore(client, container, client.URL()), nil
}

func newAzureBlobPictureStore(client blobAPI, container, serviceURL string) *azureBlobPictureStore {
	return &azureBlobPictureStore{
		client:    client,
		container: container,
		baseURL:   strings.TrimSuffix(serviceURL, "/") + "/" + container,
	}
}

func (s *azureBlobPictureStore) Put(ctx context.Context, name, contentType string, data []byte) error {
	_, err := s.client.UploadStream(ctx, s.container, name, bytes.NewReader(data), &azblob.UploadStreamOptions{
		BlockSize:   int64(1024) * 256, // 256KB
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(contentType)},
	})
	if err != nil {
		return fmt.Errorf("failed to upload blob: %w", err)
	}
	return nil
}

func (s *azureBlobPictureStore) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteBlob(ctx, s.container, name, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

func (s *azureBlobPictureStore) URL(name string) string {
	return s.baseURL + "/" + name
}
