package middleware

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/supportdesk/backend/internal/infrastructure/log"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// maxBodyBytes 对话请求体上限
const maxBodyBytes = 1 << 20

// EnsureUTF8Body 把非 UTF-8 请求体按 GBK 解码
// 部分中文 Windows 客户端以代码页 936 提交客户消息
func EnsureUTF8Body() gin.HandlerFunc {
	logger := log.NewModuleLogger("http", "encoding")

	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
		_ = c.Request.Body.Close()
		if err != nil {
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			c.Next()
			return
		}

		if !utf8.Valid(body) {
			if converted, err := decodeGBK(body); err == nil && utf8.Valid(converted) {
				logger.Debug("Request body converted from GBK", "path", c.Request.URL.Path)
				body = converted
			}
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Request.ContentLength = int64(len(body))
		c.Next()
	}
}

func decodeGBK(data []byte) ([]byte, error) {
	return io.ReadAll(transform.NewReader(bytes.NewReader(data), simplifiedchinese.GBK.NewDecoder()))
}
