package zonewidget

import "errors"

var (
	// ErrLimitReached is a refused create, not a failure: the caller is
	// expected to suppress the drawing tools and show the limit hint.
	ErrLimitReached    = errors.New("zone limit reached")
	ErrZoneNotFound    = errors.New("zone not found")
	ErrInvalidFormat   = errors.New("invalid zones format")
	ErrMissingGeometry = errors.New("zone missing geometry payload")
	ErrViewOnly        = errors.New("mutation not permitted in view mode")
	ErrTargetNotFound  = errors.New("mount target not found")
	ErrAssetLoadFailed = errors.New("map assets failed to load")
)
