package media

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path"
	"strings"
)

const (
	FolderCertificates = "certificates"
	FolderAvatars      = "avatars"
)

var (
	ErrMediaDisabled = errors.New("media uploads are disabled")
	// ErrNotManaged is returned by Delete for URLs this store did not issue.
	ErrNotManaged = errors.New("url is not managed by this media store")
)

type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store is a remote host for user attachments. Only the returned URL is persisted.
type Store interface {
	Upload(ctx context.Context, folder string, f File) (string, error)
	Delete(ctx context.Context, url string) error
}

// OpenFileHeader adapts a multipart part to File. The caller closes the returned closer.
func OpenFileHeader(fh *multipart.FileHeader) (File, io.Closer, error) {
	rc, err := fh.Open()
	if err != nil {
		return File{}, nil, err
	}
	return File{
		Name:        cleanName(fh.Filename),
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        rc,
	}, rc, nil
}

func cleanName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}

type Disabled struct{}

func (Disabled) Upload(context.Context, string, File) (string, error) {
	return "", ErrMediaDisabled
}

func (Disabled) Delete(context.Context, string) error {
	return nil
}
