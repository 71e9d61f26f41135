package backup

import "errors"

var (
	ErrStoreNotEmpty      = errors.New("backup import requires an empty store")
	ErrUnsupportedVersion = errors.New("unsupported backup format version")
)
