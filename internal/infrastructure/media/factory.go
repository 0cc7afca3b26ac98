package media

import (
	"fmt"

	"profile-hub/internal/config"

	"github.com/rs/zerolog"
)

// New builds the configured store, wrapped in a circuit breaker when it is remote.
func New(cfg config.MediaConfig, log zerolog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.MediaCloudinary:
		c, err := NewCloudinary(CloudinaryOptions{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
		})
		if err != nil {
			return nil, err
		}
		return NewBreaker("cloudinary", c, log), nil
	case config.MediaS3:
		s, err := NewS3(S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return NewBreaker("s3", s, log), nil
	case config.MediaDisabled, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
	}
}
