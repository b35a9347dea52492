package blob_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pawtrail/rescue/internal/blob"
	"github.com/pawtrail/rescue/internal/domain"
)

type mockObjectClient struct {
	mock.Mock
}

func (m *mockObjectClient) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *mockObjectClient) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Error(0)
}

func TestMinioStorePut(t *testing.T) {
	client := new(mockObjectClient)
	store := blob.NewMinioStoreWithClient(client, "rescue-images", "https://cdn.example.com/")

	data := []byte("jpeg bytes")
	client.On("PutObject", mock.Anything, "rescue-images", "animals/1/a.jpg",
		mock.Anything, int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/jpeg"},
	).Return(minio.UploadInfo{Size: int64(len(data))}, nil)

	url, err := store.Put(context.Background(), "animals/1/a.jpg", data, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/animals/1/a.jpg", url)
	client.AssertExpectations(t)
}

func TestMinioStorePutError(t *testing.T) {
	client := new(mockObjectClient)
	store := blob.NewMinioStoreWithClient(client, "rescue-images", "https://cdn.example.com")

	client.On("PutObject", mock.Anything, "rescue-images", "animals/1/a.jpg",
		mock.Anything, mock.Anything, mock.Anything,
	).Return(minio.UploadInfo{}, errors.New("connection refused"))

	_, err := store.Put(context.Background(), "animals/1/a.jpg", []byte("x"), "image/jpeg")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestMinioStoreDelete(t *testing.T) {
	client := new(mockObjectClient)
	store := blob.NewMinioStoreWithClient(client, "rescue-images", "https://cdn.example.com")

	client.On("RemoveObject", mock.Anything, "rescue-images", "animals/1/a.jpg",
		minio.RemoveObjectOptions{},
	).Return(nil)

	err := store.Delete(context.Background(), "animals/1/a.jpg")
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestMinioStoreDeleteError(t *testing.T) {
	client := new(mockObjectClient)
	store := blob.NewMinioStoreWithClient(client, "rescue-images", "https://cdn.example.com")

	client.On("RemoveObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("timeout"))

	err := store.Delete(context.Background(), "animals/1/a.jpg")
	assert.ErrorIs(t, err, domain.ErrStorage)
}
