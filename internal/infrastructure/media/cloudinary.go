package media

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryOptions struct {
	CloudName string
	APIKey    string
	APISecret string

	// UploadPrefix overrides https://api.cloudinary.com.
	UploadPrefix string
}

// Cloudinary stores files through the upload API. Files land under the
// folder they are uploaded to and are destroyed by their delivery URL.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(opts CloudinaryOptions) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(opts.CloudName, opts.APIKey, opts.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	if p := strings.TrimRight(opts.UploadPrefix, "/"); p != "" {
		cld.Upload.Config.API.UploadPrefix = p
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, folder string, f File) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, f.Body, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary: upload %s: %w", f.Name, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: upload %s: %s", f.Name, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: upload %s returned no url", f.Name)
	}
	return res.SecureURL, nil
}

func (c *Cloudinary) Delete(ctx context.Context, rawURL string) error {
	resourceType, publicID, ok := ParseCloudinaryURL(rawURL)
	if !ok {
		return ErrNotManaged
	}

	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("cloudinary: destroy %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary: destroy %s: %s", publicID, res.Error.Message)
	}
	switch res.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("cloudinary: destroy %s: %s", publicID, res.Result)
	}
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// ParseCloudinaryURL recovers the resource type and public id from a delivery
// URL such as https://res.cloudinary.com/<cloud>/image/upload/v123/certificates/a.png
// (public id "certificates/a"). Raw resources keep their extension.
func ParseCloudinaryURL(raw string) (resourceType, publicID string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.Contains(u.Host, "cloudinary.com") {
		return "", "", false
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	idx := -1
	for i, s := range segs {
		if s == "upload" {
			idx = i
			break
		}
	}
	if idx < 1 || idx == len(segs)-1 {
		return "", "", false
	}
	resourceType = segs[idx-1]

	rest := segs[idx+1:]
	if len(rest) > 1 && versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	last := rest[len(rest)-1]
	if resourceType != "raw" {
		if dot := strings.LastIndex(last, "."); dot > 0 {
			last = last[:dot]
		}
	}
	rest[len(rest)-1] = last

	publicID, err = url.PathUnescape(strings.Join(rest, "/"))
	if err != nil || publicID == "" {
		return "", "", false
	}
	return resourceType, publicID, true
}
