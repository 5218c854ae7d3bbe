package archive

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/haulops/haulctl/internal/config"
	"github.com/haulops/haulctl/internal/util"
	"github.com/minio/minio-go/v7"
)

type fakeStore struct {
	buckets map[string]bool
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func (f *fakeStore) BucketExists(_ context.Context, name string) (bool, error) {
	return f.buckets[name], nil
}

func (f *fakeStore) MakeBucket(_ context.Context, name string, _ minio.MakeBucketOptions) error {
	f.buckets[name] = true
	return nil
}

func (f *fakeStore) PutObject(_ context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if int64(len(data)) != size {
		return minio.UploadInfo{}, errors.New("size mismatch")
	}
	f.objects[bucket+"/"+object] = data
	f.types[bucket+"/"+object] = opts.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: size}, nil
}

func newFake() *fakeStore {
	return &fakeStore{buckets: map[string]bool{}, objects: map[string][]byte{}, types: map[string]string{}}
}

func TestUpload(t *testing.T) {
	fs := newFake()
	a := &Archive{store: fs, bucket: "haul-exports"}

	loc, err := a.Upload(context.Background(), "YardDrops", "YardDrops_2026-10-17.csv", []byte("\xEF\xBB\xBFSection,YardDrops\n"))
	if err != nil {
		t.Fatal(err)
	}
	if loc != "s3://haul-exports/exports/YardDrops/YardDrops_2026-10-17.csv" {
		t.Fatalf("location = %s", loc)
	}
	if !fs.buckets["haul-exports"] {
		t.Fatal("bucket not created")
	}
	key := "haul-exports/exports/YardDrops/YardDrops_2026-10-17.csv"
	if string(fs.objects[key]) != "\xEF\xBB\xBFSection,YardDrops\n" || fs.types[key] != csvContentType {
		t.Fatalf("object = %q type=%q", fs.objects[key], fs.types[key])
	}
}

func TestUpload_Error(t *testing.T) {
	fs := newFake()
	fs.putErr = errors.New("access denied")
	a := &Archive{store: fs, bucket: "b"}
	if _, err := a.Upload(context.Background(), "Bids", "Bids.csv", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestNew_Disabled(t *testing.T) {
	_, err := New(config.ArchiveConfig{Bucket: "x"})
	if !errors.Is(err, util.ErrArchiveDisabled) {
		t.Fatalf("err = %v", err)
	}
}
