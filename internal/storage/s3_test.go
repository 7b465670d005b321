package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, params)
	body, _ := io.ReadAll(params.Body)
	f.bodies = append(f.bodies, body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func testStore(api putObjectAPI) *S3Store {
	return newS3Store(api, S3Options{Bucket: "stocks-bot", Region: "sa-east-1"})
}

func TestNewObjectName(t *testing.T) {
	a, b := NewObjectName(), NewObjectName()

	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.Len(t, a, 36+len(".png"))
	assert.NotEqual(t, a, b)
}

func TestS3Store_PublicURL(t *testing.T) {
	store := testStore(&fakeS3{})
	assert.Equal(t, "https://stocks-bot.s3-sa-east-1.amazonaws.com/x.png", store.PublicURL("x.png"))

	custom := newS3Store(&fakeS3{}, S3Options{Bucket: "b", Region: "r", PublicURL: "https://cdn.example.com/{key}"})
	assert.Equal(t, "https://cdn.example.com/x.png", custom.PublicURL("x.png"))
}

func TestS3Store_Upload(t *testing.T) {
	api := &fakeS3{}
	store := testStore(api)

	url, err := store.Upload(context.Background(), "chart.png", []byte("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "https://stocks-bot.s3-sa-east-1.amazonaws.com/chart.png", url)
	require.Len(t, api.inputs, 1)
	assert.Equal(t, "stocks-bot", aws.ToString(api.inputs[0].Bucket))
	assert.Equal(t, "chart.png", aws.ToString(api.inputs[0].Key))
	assert.Equal(t, "image/png", aws.ToString(api.inputs[0].ContentType))
	assert.Equal(t, []byte("png-bytes"), api.bodies[0])
}

func TestS3Store_Upload_Failure(t *testing.T) {
	api := &fakeS3{err: errors.New("InvalidAccessKeyId")}
	store := testStore(api)

	url, err := store.Upload(context.Background(), "chart.png", []byte("png-bytes"))

	assert.ErrorIs(t, err, ErrUpload)
	assert.Empty(t, url)
}

func TestS3Store_Upload_FailureLeavesErrorLogToCaller(t *testing.T) {
	var logs bytes.Buffer
	store := testStore(&fakeS3{err: errors.New("SlowDown")})
	store.logger = zerolog.New(&logs)

	_, err := store.Upload(context.Background(), "chart.png", []byte("png-bytes"))
	require.ErrorIs(t, err, ErrUpload)

	assert.Contains(t, logs.String(), `"level":"debug"`)
	assert.NotContains(t, logs.String(), `"level":"error"`)
}

func TestS3Store_Upload_EmptyBody(t *testing.T) {
	api := &fakeS3{}
	store := testStore(api)

	_, err := store.Upload(context.Background(), "chart.png", nil)

	assert.ErrorIs(t, err, ErrUpload)
	assert.Empty(t, api.inputs)
}

func TestS3Store_UploadFile(t *testing.T) {
	api := &fakeS3{}
	store := testStore(api)
	path := filepath.Join(t.TempDir(), "image.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o644))

	url, err := store.UploadFile(context.Background(), path, "abc.png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, "/abc.png"))

	_, err = store.UploadFile(context.Background(), filepath.Join(t.TempDir(), "missing.png"), "abc.png")
	assert.ErrorIs(t, err, ErrUpload)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Len(t, api.inputs, 1)
}
