package util

import (
	"errors"
	"net/http"
	"skillcheck_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// HandleServiceError 将业务错误映射为统一响应
// NotFound/Validation 属于客户端错误同步返回，写冲突返回 409 提示重试
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTestNotFound),
		errors.Is(err, ErrQuestionNotFound),
		errors.Is(err, ErrSubmissionNotFound),
		errors.Is(err, ErrTechnologyNotFound),
		errors.Is(err, ErrUserNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateAnswer),
		errors.Is(err, ErrSubmissionFinalized),
		errors.Is(err, ErrWriteConflict):
		Conflict(c, err.Error())
	case errors.Is(err, ErrUnknownQuestionType),
		errors.Is(err, ErrMalformedAnswer),
		errors.Is(err, ErrTestNotJoinable),
		errors.Is(err, ErrTestNotAvailable),
		errors.Is(err, ErrUnsupportedFile):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrPermissionDenied):
		Forbidden(c)
	default:
		LogInternalError(c, err)
	}
}
