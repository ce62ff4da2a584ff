// Package datauri parses and builds the base64 data URIs the pipeline moves
// between vendors. Artifact values are either a fetchable URL or a data URI;
// this package is the single place the two representations are told apart.
package datauri

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// IsDataURI reports whether the image reference is an embedded data URI
// rather than a fetchable URL.
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:image")
}

// Decode splits a data URI into its media type and raw bytes.
// A vendor that expects a binary upload gets the decoded bytes; URL values
// are never passed through here.
func Decode(uri string) (mediaType string, data []byte, err error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI: missing comma separator")
	}
	if !strings.HasPrefix(header, "data:") {
		return "", nil, fmt.Errorf("malformed data URI: missing data: scheme")
	}
	meta := strings.TrimPrefix(header, "data:")
	meta = strings.TrimSuffix(meta, ";base64")
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI payload: %w", err)
	}
	return meta, data, nil
}

// EncodePNG wraps raw PNG bytes in a data URI.
func EncodePNG(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

// Filename picks an upload filename matching the media type of a data URI.
func Filename(mediaType string) string {
	if strings.Contains(mediaType, "image/jpeg") || strings.Contains(mediaType, "image/jpg") {
		return "image.jpg"
	}
	return "image.png"
}
