package handler

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cliptube/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

const uploadTmpDir = "/tmp/cliptube-uploads"

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// currentUserID 可选认证场景下取用户 ID，匿名返回 0
func currentUserID(c *gin.Context) int64 {
	id, _ := middleware.GetCurrentUserID(c)
	return id
}

// saveUpload 把 multipart 文件落到本地临时路径，调用方负责清理
func saveUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(uploadTmpDir, 0755); err != nil {
		return "", err
	}
	dst := filepath.Join(uploadTmpDir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}
