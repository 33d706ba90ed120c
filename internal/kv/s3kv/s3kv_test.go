package s3kv

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogkeeper/internal/kv"
)

// fakeS3 is an in-memory bucket that pages listings two objects at a time.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
	puts    []string
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(v))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.puts = append(f.puts, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := aws.ToString(in.Prefix)
	var keys []string
	for k := range f.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		start, _ = strconv.Atoi(*in.ContinuationToken)
	}
	end := min(start+2, len(keys))

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func TestRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	r := New(api, "blog", "bk/")

	v, err := r.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Set(ctx, "favorites", []byte(`[]`)))
	assert.Equal(t, []string{"blog/bk/favorites"}, api.puts)

	v, err = r.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), v)

	require.NoError(t, r.Delete(ctx, "favorites"))
	require.NoError(t, r.Delete(ctx, "favorites"))
	v, err = r.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRepository_ListAndClearFollowPagination(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	api.objects["unrelated"] = []byte("x")
	r := New(api, "blog", "bk/")

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, r.Set(ctx, k, []byte(k+k)))
	}

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, []byte("cc"), all["c"])
	assert.NotContains(t, all, "unrelated")

	require.NoError(t, r.Clear(ctx))
	all, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Contains(t, api.objects, "unrelated")
}

func TestRepository_GetMapsAPINotFound(t *testing.T) {
	api := newFakeS3()
	api.getErr = &smithy.GenericAPIError{Code: "NotFound", Message: "404"}
	r := New(api, "blog", "")

	v, err := r.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRepository_GetWrapsOtherErrors(t *testing.T) {
	api := newFakeS3()
	api.getErr = &smithy.GenericAPIError{Code: "AccessDenied", Message: "403"}
	r := New(api, "blog", "")

	_, err := r.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get object k")
}

func TestRepository_MutateFallsBackToGetSet(t *testing.T) {
	ctx := context.Background()
	r := New(newFakeS3(), "blog", "")

	require.NoError(t, kv.Mutate(ctx, r, "n", func(cur []byte) ([]byte, error) {
		assert.Nil(t, cur)
		return []byte("1"), nil
	}))
	require.NoError(t, kv.Mutate(ctx, r, "n", func(cur []byte) ([]byte, error) {
		return append(cur, '2'), nil
	}))

	v, err := r.Get(ctx, "n")
	require.NoError(t, err)
	assert.Equal(t, []byte("12"), v)
}

func TestNewFromConfig_AppliesOptions(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-central-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minio", creds.AccessKeyID)
		assert.Equal(t, "minio123", creds.SecretAccessKey)
		return aws.Config{}, nil
	}

	var got s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&got)
		}
		return &s3.Client{}
	}

	r, err := NewFromConfig(context.Background(), Options{
		Bucket:    "blog",
		Region:    "eu-central-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Prefix:    "bk/",
	})
	require.NoError(t, err)
	require.NotNil(t, r)
	require.NotNil(t, got.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *got.BaseEndpoint)
	assert.True(t, got.UsePathStyle)
	assert.Equal(t, "bk/", r.prefix)
}

func TestNewFromConfig_Errors(t *testing.T) {
	_, err := NewFromConfig(context.Background(), Options{})
	require.Error(t, err)

	orig := loadDefaultAWSConfig
	defer func() { loadDefaultAWSConfig = orig }()
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err = NewFromConfig(context.Background(), Options{Bucket: "b"})
	require.EqualError(t, err, "load-fail")
}
