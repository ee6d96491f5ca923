package resume

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSourceFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"b.pdf":    "b",
		"A.PDF":    "a",
		"notes.md": "skip",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested.pdf", "c.pdf"), []byte("c"), 0o600))

	docs, err := NewDirSource(dir, nil).Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "A.PDF", docs[0].Name)
	assert.Equal(t, []byte("a"), docs[0].Data)
	assert.Equal(t, "b.pdf", docs[1].Name)

	docs, err = NewDirSource(dir, []string{"md", " .PDF "}).Documents(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestDirSourceMissingDirectory(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "missing"), nil).Documents(context.Background())
	require.Error(t, err)
}

type fakeS3 struct {
	objects   map[string]string
	listInput *s3.ListObjectsV2Input
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.listInput = in
	return &s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("cvs/alice.pdf")},
			{Key: aws.String("cvs/readme.txt")},
			{Key: aws.String("cvs/zed.pdf")},
		},
		IsTruncated: aws.Bool(false),
	}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString(f.objects[aws.ToString(in.Key)]))}, nil
}

func TestS3SourceListsOneLevel(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"cvs/alice.pdf": "alice", "cvs/zed.pdf": "zed"}}
	src := newS3Source(client, "bucket", "/cvs", nil)

	docs, err := src.Documents(context.Background())
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, Document{Name: "alice.pdf", Data: []byte("alice")}, docs[0])
	assert.Equal(t, "zed.pdf", docs[1].Name)

	assert.Equal(t, "cvs/", aws.ToString(client.listInput.Prefix))
	assert.Equal(t, "/", aws.ToString(client.listInput.Delimiter))
	assert.Equal(t, "s3://bucket/cvs/", src.String())
}
