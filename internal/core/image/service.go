package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "image/gif"  // 支援 GIF
	_ "image/jpeg" // 支援 JPEG
	_ "image/png"  // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP

	"github.com/pasarde/recipe-app/internal/pkg/common"

	"go.uber.org/zap"
)

// 驗證訊息
const (
	ErrTypeNotAllowed = "File type not allowed."
	ErrTooLarge       = "Image exceeds the maximum upload size."
	ErrNotAnImage     = "Uploaded file is not a valid image."
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// Service 上傳圖片儲存服務
type Service struct {
	dir          string
	publicPrefix string
	maxSizeBytes int64
}

// NewService 創建新的圖片服務
func NewService(dir, publicPrefix string, maxSizeBytes int64) *Service {
	return &Service{
		dir:          dir,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
		maxSizeBytes: maxSizeBytes,
	}
}

// Save validates an uploaded image and writes it under the upload
// directory. It returns the public path of the stored file.
func (s *Service) Save(_ context.Context, filename string, src io.Reader) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !isSupportedFormat(ext) {
		return "", common.NewValidationError(ErrTypeNotAllowed)
	}

	data, err := io.ReadAll(io.LimitReader(src, s.maxSizeBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSizeBytes {
		return "", common.NewValidationError(ErrTooLarge)
	}

	// 檢查圖片格式
	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err != nil || !isSupportedFormat(format) {
		return "", common.NewValidationError(ErrNotAnImage)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := common.GenerateUUID()[:8] + "_" + secureFilename(filename)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	common.LogInfo("image uploaded",
		zap.String("file", name),
		zap.Int("size", len(data)),
	)
	return s.publicPrefix + "/" + name, nil
}

// secureFilename strips directories and anything outside [A-Za-z0-9_.-].
func secureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(strings.ReplaceAll(name, " ", "_"), "")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "upload"
	}
	return name
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"jpg":  true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}
