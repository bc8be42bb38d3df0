package tool

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ReadFileURL reads a file:// URL from the local filesystem and returns the
// base name, detected MIME type, and contents.
func ReadFileURL(fileUrl string) (string, string, []byte, error) {
	parsedUrl, err := url.Parse(fileUrl)
	if err != nil {
		return "", "", nil, fmt.Errorf("invalid fileUrl: %v", err)
	}
	if parsedUrl.Scheme != "file" {
		return "", "", nil, fmt.Errorf("only file:// protocol is supported for fileUrl")
	}

	filePath := parsedUrl.Path
	info, err := os.Stat(filePath)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to stat file: %v", err)
	}
	if info.IsDir() {
		return "", "", nil, fmt.Errorf("path is a directory, not a file")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to read file from %s: %v", filePath, err)
	}

	fileName := filepath.Base(filePath)
	return fileName, DetectContentType(fileName), data, nil
}

// DetectContentType maps a file name to a MIME type by extension, falling
// back to application/octet-stream.
func DetectContentType(fileName string) string {
	fileType := mime.TypeByExtension(filepath.Ext(fileName))
	if fileType == "" {
		return "application/octet-stream"
	}
	return fileType
}

// ExtensionForType returns a file extension (with dot) for an image MIME
// type, defaulting to .png when the type carries no known extension.
func ExtensionForType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	exts, err := mime.ExtensionsByType(strings.TrimSpace(contentType))
	if err != nil || len(exts) == 0 {
		return ".png"
	}
	// Prefer the conventional extensions over oddballs like .jpe
	for _, preferred := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp"} {
		for _, ext := range exts {
			if ext == preferred {
				return ext
			}
		}
	}
	return exts[0]
}

// NextAvailablePath returns the first path under dir that does not exist,
// using fileName and if it exists, trying base-2.ext, base-3.ext, ...
func NextAvailablePath(dir, fileName string) string {
	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(filepath.Base(fileName), ext)
	if base == "" {
		base = fileName
		ext = ""
	}
	try := filepath.Join(dir, fileName)
	if _, err := os.Stat(try); os.IsNotExist(err) {
		return try
	}
	for n := 2; ; n++ {
		try = filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, n, ext))
		if _, err := os.Stat(try); os.IsNotExist(err) {
			return try
		}
	}
}
