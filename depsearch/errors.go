package depsearch

import (
	"errors"
	"fmt"
)

var (
	// ErrNotGameAsset matches the error returned when a root is outside Game content.
	ErrNotGameAsset = errors.New("not a game asset")

	// ErrSessionUsed is returned when a search is gathered a second time.
	ErrSessionUsed = errors.New("dependency search already gathered")
)

// NotGameAssetError names the root that failed the Game content check.
type NotGameAssetError struct {
	Asset string
}

func (e *NotGameAssetError) Error() string {
	return fmt.Sprintf("%s is not in Game content, can only find dependencies for Game content", e.Asset)
}

// Is makes errors.Is(err, ErrNotGameAsset) hold.
func (e *NotGameAssetError) Is(target error) bool {
	return target == ErrNotGameAsset
}
