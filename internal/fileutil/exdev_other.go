//go:build !unix

package fileutil

// IsCrossDevice always reports false where rename does not surface EXDEV.
func IsCrossDevice(error) bool { return false }
