// Package utilities contain utility code that use across the package
package utilities

import (
	"path/filepath"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// MessageResponse is the uniform JSON body for both success confirmations and
// error responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the plaintext password matches the hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeFilename strips any path component from an uploaded filename and
// collapses whitespace runs into dashes so the name is safe on disk and in a
// URL.
func SanitizeFilename(name string) string {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == string(filepath.Separator) {
		base = "upload"
	}
	return whitespaceRun.ReplaceAllString(base, "-")
}
