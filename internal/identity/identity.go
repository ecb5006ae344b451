// Package identity derives the started-by tag shared by every task of a custom resource.
package identity

import (
	"crypto/md5" //nolint:gosec // idempotency key, not a security token
	"encoding/hex"
)

// Derive returns the lowercase hex MD5 digest of stackID followed by logicalResourceID.
// The same pair always yields the same 32 character identity.
func Derive(stackID, logicalResourceID string) string {
	sum := md5.Sum([]byte(stackID + logicalResourceID)) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}
