package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/middleware"
	"go.uber.org/zap"
)

// Response 成功响应
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse 失败响应
type ErrorResponse struct {
	Success bool                `json:"success"`
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Details interface{}         `json:"details,omitempty"`
}

// respondOK 返回成功
func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// respondCreated 返回创建成功
func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// respondError 将服务错误转换为HTTP响应
func respondError(c *gin.Context, log *zap.Logger, err error) {
	appErr := apperrors.As(err)
	fields := []zap.Field{
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	}
	switch {
	case appErr.HTTPStatus() >= http.StatusInternalServerError:
		log.Error("请求处理失败", fields...)
	case apperrors.IsBusinessFailure(appErr):
		log.Debug("业务条件不满足", fields...)
	default:
		log.Warn("请求被拒绝", fields...)
	}
	middleware.AbortWithError(c, appErr)
}

// respondBindError 参数绑定失败，逐字段列出原因
func respondBindError(c *gin.Context, err error) {
	var details []string

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details = append(details, fmt.Sprintf("%s: %s", fieldName(fe), describeTag(fe)))
		}
	} else {
		details = append(details, err.Error())
	}

	appErr := apperrors.New(apperrors.ErrInvalidParam, strings.Join(details, "; "))
	c.AbortWithStatusJSON(appErr.HTTPStatus(), ErrorResponse{
		Success: false,
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: details,
	})
}

// fieldName 去掉顶层结构体名，字段名已注册为json标签
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// registerJSONTagNames 校验错误使用json字段名
func registerJSONTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "至少需要 " + fe.Param() + " 项"
		}
		return "不能小于 " + fe.Param()
	case "max":
		return "不能超过 " + fe.Param()
	default:
		return "校验失败 (" + fe.Tag() + ")"
	}
}

// pathID 解析路径中的ID参数
func pathID(c *gin.Context, name string) (uint, bool) {
	return parseID(c, name, c.Param(name))
}

// queryID 解析查询参数中的ID
func queryID(c *gin.Context, name string) (uint, bool) {
	return parseID(c, name, c.Query(name))
}

func parseID(c *gin.Context, name, raw string) (uint, bool) {
	if raw == "" {
		respondBindError(c, fmt.Errorf("%s: 不能为空", name))
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondBindError(c, fmt.Errorf("%s: 必须是正整数", name))
		return 0, false
	}
	return uint(id), true
}

// requiredQuery 读取必填的查询参数
func requiredQuery(c *gin.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		respondBindError(c, fmt.Errorf("%s: 不能为空", name))
		return "", false
	}
	return v, true
}
