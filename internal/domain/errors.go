package domain

import "errors"

var (
	// ErrUnsupportedAssetType marks a configuration error: an asset type tag
	// outside the closed set, or one with no page consumer.
	ErrUnsupportedAssetType = errors.New("unsupported asset type")
	// ErrDataUnavailable marks holdings that could not be loaded.
	ErrDataUnavailable = errors.New("holdings data unavailable")
	// ErrNotFound is returned when an asset does not exist for the caller.
	ErrNotFound = errors.New("asset not found")
	// ErrInvalidAsset wraps asset validation failures.
	ErrInvalidAsset = errors.New("invalid asset")
)
