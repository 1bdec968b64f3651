package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务错误码
const (
	CodeOK           = 0
	CodeInvalidParam = 800001
	CodeStorage      = 800002
	CodeNotFound     = 800004
)

// Response /api/v1 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse /api/v1 错误响应
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

// BadRequest 参数错误
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Code: CodeInvalidParam, Message: message})
}

// NotFound 资源不存在
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Code: CodeNotFound, Message: message})
}

// StorageError 存储读取失败，detail 为底层错误
func StorageError(c *gin.Context, message string, err error) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    CodeStorage,
		Message: message,
		Detail:  err.Error(),
	})
}
