package adapter

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlobClient struct {
	uploaded    map[string][]byte
	contentType string
	deleted     []string
	deleteErr   error
}

func (f *fakeBlobClient) UploadStream(_ context.Context, _, blobName string, body io.Reader, o *azblob.UploadStreamOptions) (azblob.UploadStreamResponse, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return azblob.UploadStreamResponse{}, err
	}
	if f.uploaded == nil {
		f.uploaded = map[string][]byte{}
	}
	f.uploaded[blobName] = data
	if o != nil && o.HTTPHeaders != nil && o.HTTPHeaders.BlobContentType != nil {
		f.contentType = *o.HTTPHeaders.BlobContentType
	}
	return azblob.UploadStreamResponse{}, nil
}

func (f *fakeBlobClient) DeleteBlob(_ context.Context, _, blobName string, _ *azblob.DeleteBlobOptions) (azblob.DeleteBlobResponse, error) {
	f.deleted = append(f.deleted, blobName)
	return azblob.DeleteBlobResponse{}, f.deleteErr
}

func TestAzureBlobPictureStore(t *testing.T) {
	client := &fakeBlobClient{}
	store := newAzureBlobPictureStore(client, "pictures", "https://acct.blob.core.windows.net/")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a.png", "image/png", []byte("png")))
	assert.Equal(t, []byte("png"), client.uploaded["a.png"])
	assert.Equal(t, "image/png", client.contentType)
	assert.Equal(t, "https://acct.blob.core.windows.net/pictures/a.png", store.URL("a.png"))

	require.NoError(t, store.Delete(ctx, "a.png"))
	assert.Equal(t, []string{"a.png"}, client.deleted)

	client.deleteErr = errors.New("boom")
	assert.Error(t, store.Delete(ctx, "b.png"))
}

type fakeS3Client struct {
	put    *s3.PutObjectInput
	delete *s3.DeleteObjectInput
}

func (f *fakeS3Client) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3Client) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delete = in
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3PictureStore(t *testing.T) {
	client := &fakeS3Client{}
	store := newS3PictureStore(client, S3Config{Endpoint: "http://minio:9000/", Bucket: "pics"})
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "b.jpg", "image/jpeg", []byte("jpg")))
	require.NotNil(t, client.put)
	assert.Equal(t, "pics", *client.put.Bucket)
	assert.Equal(t, "b.jpg", *client.put.Key)
	assert.Equal(t, "image/jpeg", *client.put.ContentType)
	assert.Equal(t, "http://minio:9000/pics/b.jpg", store.URL("b.jpg"))

	require.NoError(t, store.Delete(ctx, "b.jpg"))
	assert.Equal(t, "b.jpg", *client.delete.Key)

	public := newS3PictureStore(client, S3Config{Endpoint: "http://minio:9000", Bucket: "pics", PublicURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com/b.jpg", public.URL("b.jpg"))
}
