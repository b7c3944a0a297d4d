package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSameFilesystem flags a destination on another filesystem than the
// input directory. Moves there fall back to copy and delete, so they are slower
// and not atomic.
func CheckSameFilesystem(result Result, inputDir, destDir string) Result {
	var src, dst unix.Stat_t
	if err := unix.Stat(inputDir, &src); err != nil {
		return result
	}
	if err := unix.Stat(destDir, &dst); err != nil {
		return result
	}
	if src.Dev != dst.Dev {
		result.Warning = true
		result.Detail = fmt.Sprintf("%s (other filesystem: files are copied, then removed)", destDir)
	}
	return result
}
