//go:build windows

package ops

import (
	"os"

	"github.com/hpungsan/unclip/internal/errors"
)

// openFileNoFollow opens the temp file of an atomic write. Windows has no
// O_NOFOLLOW; ValidateOutputPath has already rejected symlinked targets.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, flag, perm)
}

// openFileNoFollowRead opens a batch transcript for reading.
func openFileNoFollowRead(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.NewFileNotFound(path)
	}
	return f, err
}
