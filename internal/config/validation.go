package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidUploadEndpoint indicates the upload endpoint URL is invalid.
	ErrInvalidUploadEndpoint = errors.New("invalid upload endpoint")

	// ErrInvalidUploadRate indicates the upload throttle settings are out of range.
	ErrInvalidUploadRate = errors.New("invalid upload rate")

	// ErrInvalidImageBounds indicates the image bounding box is out of range.
	ErrInvalidImageBounds = errors.New("invalid image bounds")

	// ErrInvalidHistorySize indicates the history entry cap is out of range.
	ErrInvalidHistorySize = errors.New("invalid history size")

	// ErrInvalidConversationID indicates the pinned conversation ID is not a UUID.
	ErrInvalidConversationID = errors.New("invalid conversation ID")
)

// maxImageDimension is the largest accepted per-axis bound. Anything above
// this defeats the point of client-side downscaling.
const maxImageDimension = 4096

// maxHistoryEntries is the absolute history cap to keep startup loads cheap.
const maxHistoryEntries = 10000

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// 1. Upload endpoint must be an absolute http(s) URL
	u, err := url.Parse(c.Upload.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUploadEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q (must be an absolute http or https URL)",
			ErrInvalidUploadEndpoint, c.Upload.Endpoint)
	}

	// 2. Upload throttling
	if c.Upload.Rate <= 0 {
		return fmt.Errorf("%w: rate must be positive, got %g", ErrInvalidUploadRate, c.Upload.Rate)
	}
	if c.Upload.Burst < 1 {
		return fmt.Errorf("%w: burst must be at least 1, got %d", ErrInvalidUploadRate, c.Upload.Burst)
	}

	// 3. Image bounding box
	if c.Image.MaxWidth < 1 || c.Image.MaxWidth > maxImageDimension {
		return fmt.Errorf("%w: max_width must be between 1 and %d, got %d",
			ErrInvalidImageBounds, maxImageDimension, c.Image.MaxWidth)
	}
	if c.Image.MaxHeight < 1 || c.Image.MaxHeight > maxImageDimension {
		return fmt.Errorf("%w: max_height must be between 1 and %d, got %d",
			ErrInvalidImageBounds, maxImageDimension, c.Image.MaxHeight)
	}

	// 4. History bounds
	if c.History.MaxEntries < 1 || c.History.MaxEntries > maxHistoryEntries {
		return fmt.Errorf("%w: max_entries must be between 1 and %d, got %d",
			ErrInvalidHistorySize, maxHistoryEntries, c.History.MaxEntries)
	}

	// 5. Pinned conversation ID, when present, must be a UUID
	if c.ConversationID != "" {
		if _, err := uuid.Parse(c.ConversationID); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidConversationID, c.ConversationID)
		}
	}

	return nil
}
