package service

import (
	"encoding/base64"
	"regexp"
	"strings"

	"svgecommerce/internal/errors"
)

const invalidImageMessage = "Invalid image data. Expected a base64 data:image URI"

var dataURIPattern = regexp.MustCompile(`^data:image/([a-zA-Z0-9.+-]+);base64,`)

// ImageValidator checks product artwork sent as data URIs.
type ImageValidator struct{}

// NewImageValidator creates a new image validator.
func NewImageValidator() *ImageValidator {
	return &ImageValidator{}
}

// Format returns the image subtype of a data URI ("png", "svg+xml", ...).
func (v *ImageValidator) Format(dataURI string) (string, error) {
	m := dataURIPattern.FindStringSubmatch(dataURI)
	if m == nil {
		return "", errors.Reject(invalidImageMessage)
	}

	payload := dataURI[len(m[0]):]
	if payload == "" || !v.validateBase64(payload) {
		return "", errors.Reject(invalidImageMessage)
	}
	return strings.ToLower(m[1]), nil
}

// ValidateImageData requires a resized image and accepts an empty original.
func (v *ImageValidator) ValidateImageData(resized, original string) error {
	if _, err := v.Format(resized); err != nil {
		return err
	}
	if original == "" {
		return nil
	}
	_, err := v.Format(original)
	return err
}

// validateBase64 accepts padded and unpadded standard encoding.
func (v *ImageValidator) validateBase64(payload string) bool {
	if _, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return true
	}
	_, err := base64.RawStdEncoding.DecodeString(payload)
	return err == nil
}

// NormalizeFilter maps the search filter to an image subtype prefix.
// Clients send "null" for no filter.
func NormalizeFilter(filter string) string {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "null" {
		return ""
	}
	return filter
}
