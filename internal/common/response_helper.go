package common

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ResponseSuccess 返回成功响应
func ResponseSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, SuccessResponse(data))
}

// ResponseSuccessMessage 返回成功响应（带消息）
func ResponseSuccessMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessMessageResponse(message, data))
}

// ResponseList 返回分页列表响应
func ResponseList(c *gin.Context, items any, total int64, req *PaginationRequest) {
	if req == nil {
		defaultReq := DefaultPagination()
		req = &defaultReq
	}
	c.JSON(http.StatusOK, SuccessResponse(NewListResponse(items, req.GetPage(), req.GetPageSize(), total)))
}

// StatusForCode 业务码到 HTTP 状态码的映射，其他业务错误返回 200
func StatusForCode(code int) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeModelNotFound, CodeProviderNotFound:
		return http.StatusNotFound
	case CodeInvalidRequest, CodeRequestRejected, CodeUnsupportedVendor:
		return http.StatusBadRequest
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case CodeInternalError:
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

// ResponseError 返回错误响应
func ResponseError(c *gin.Context, code int, message string) {
	c.JSON(StatusForCode(code), ErrorResponse(code, message))
}

// ResponseBusinessError 返回业务错误响应
func ResponseBusinessError(c *gin.Context, err *BusinessError) {
	ResponseError(c, err.Code, err.Message)
}

// ResponseErr 业务错误按错误码输出，其余按内部错误处理
func ResponseErr(c *gin.Context, err error) {
	var bizErr *BusinessError
	if errors.As(err, &bizErr) {
		ResponseBusinessError(c, bizErr)
		return
	}
	ResponseServerError(c, err.Error())
}

// ResponseFail 操作未生效（更新/删除零条记录）
func ResponseFail(c *gin.Context) {
	c.JSON(http.StatusOK, ErrorResponse(CodeOperationFailed, GetErrorMessage(CodeOperationFailed)))
}

// ResponseCount 按影响行数返回成功或失败
func ResponseCount(c *gin.Context, count int64) {
	if count > 0 {
		ResponseSuccess(c, gin.H{"count": count})
		return
	}
	ResponseFail(c)
}

// AbortWithError 中断并返回错误
func AbortWithError(c *gin.Context, code int, message string) {
	ResponseError(c, code, message)
	c.Abort()
}

// ResponseBadRequest 返回参数错误响应
func ResponseBadRequest(c *gin.Context, message string) {
	ResponseError(c, CodeInvalidRequest, message)
}

// ResponseUnauthorized 返回未认证响应
func ResponseUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "未认证，请先登录"
	}
	ResponseError(c, CodeUnauthorized, message)
}

// ResponseNotFound 返回资源不存在响应
func ResponseNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "资源不存在"
	}
	ResponseError(c, CodeNotFound, message)
}

// ResponseServerError 返回服务器错误响应
func ResponseServerError(c *gin.Context, message string) {
	if message == "" {
		message = "服务器内部错误"
	}
	ResponseError(c, CodeInternalError, message)
}

// ParseIDParam 解析路径中的数字 ID，失败时直接写入 400 响应
func ParseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		ResponseBadRequest(c, "无效的 "+name)
		return 0, false
	}
	return id, true
}
