//go:build !unix

package fsx

// isEXDEV is never true off unix; a failed rename is reported as is.
func isEXDEV(err error) bool {
	return false
}
