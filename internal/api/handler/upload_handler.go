package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/clover-eric/fenzu-hw/internal/service"
	"github.com/clover-eric/fenzu-hw/pkg/response"
)

// UploadHandler 图片上传模块 HTTP 处理器
type UploadHandler struct {
	uploadSvc service.UploadService
}

// NewUploadHandler 创建 UploadHandler
func NewUploadHandler(uploadSvc service.UploadService) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc}
}

// UploadImage 富文本编辑器图片上传
// POST /api/v1/upload/image
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("upload")
	if err != nil {
		response.BadRequest(c, 15001, "没有文件被上传")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	url, err := h.uploadSvc.SaveImage(fileHeader.Filename, f)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFile):
			response.BadRequest(c, 15001, "没有文件被上传")
		case errors.Is(err, service.ErrUnsupportedFile):
			response.BadRequest(c, 15002, "不支持的文件类型")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, gin.H{"url": url})
}
