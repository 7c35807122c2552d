package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clover-eric/fenzu-hw/config"
)

// ── 上传模块业务错误 ──

var (
	ErrNoFile          = errors.New("没有文件被上传")
	ErrUnsupportedFile = errors.New("不支持的文件类型")
)

// 富文本编辑器允许插入的图片扩展名
var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
}

// UploadService 图片上传业务接口
type UploadService interface {
	// SaveImage 校验扩展名后以时间戳前缀的安全文件名落盘，返回公开访问 URL
	SaveImage(filename string, src io.Reader) (string, error)
}

type uploadService struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewUploadService 创建 UploadService 实例
func NewUploadService(cfg *config.Config, logger *zap.Logger) UploadService {
	return &uploadService{
		dir:     cfg.Upload.Dir,
		baseURL: strings.TrimRight(cfg.Server.BaseURL, "/"),
		logger:  logger,
	}
}

func (s *uploadService) SaveImage(filename string, src io.Reader) (string, error) {
	if filename == "" {
		return "", ErrNoFile
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return "", ErrUnsupportedFile
	}

	// 时间戳前缀避免同名覆盖
	safeName := time.Now().Format("20060102_150405_") + sanitizeFilename(filename)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Error("创建上传目录失败", zap.String("dir", s.dir), zap.Error(err))
		return "", err
	}

	dst, err := os.Create(filepath.Join(s.dir, safeName))
	if err != nil {
		s.logger.Error("创建上传文件失败", zap.String("name", safeName), zap.Error(err))
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		s.logger.Error("写入上传文件失败", zap.String("name", safeName), zap.Error(err))
		return "", err
	}

	return fmt.Sprintf("%s/uploads/%s", s.baseURL, safeName), nil
}

// sanitizeFilename 去除路径分隔符并将不安全字符替换为下划线
func sanitizeFilename(filename string) string {
	base := filepath.Base(filename)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
