package handler

import (
	"github.com/gin-gonic/gin"

	pkgerrors "workdesk/pkg/errors"
	"workdesk/pkg/response"
)

// errorCodes 模块业务错误码
//
// 通用码：10001 参数校验失败，10002 未认证，10004 请求过于频繁，10005 请求体过大。
// 模块码：模块前缀 + 分类后缀（1 参数错误，2 不存在，3 无权限，4 角色不允许）。
type errorCodes struct {
	badRequest   int
	notFound     int
	noPermission int
	forbidden    int
}

func moduleCodes(base int) errorCodes {
	return errorCodes{
		badRequest:   base + 1,
		notFound:     base + 2,
		noPermission: base + 3,
		forbidden:    base + 4,
	}
}

var (
	workTaskCodes     = moduleCodes(12000)
	scheduleCodes     = moduleCodes(13000)
	notificationCodes = moduleCodes(14000)
	authCodes         = moduleCodes(11000)
)

// codeInvalidCredentials 工号或密码错误
const codeInvalidCredentials = 11005

// respondError 按业务错误分类写入响应，未分类错误统一返回 500
func respondError(c *gin.Context, codes errorCodes, err error) {
	msg := pkgerrors.MessageOf(err)
	switch pkgerrors.KindOf(err) {
	case pkgerrors.ErrBadRequest:
		response.BadRequest(c, codes.badRequest, msg)
	case pkgerrors.ErrNotFound:
		response.NotFound(c, codes.notFound, msg)
	case pkgerrors.ErrNoPermission:
		response.Forbidden(c, codes.noPermission, msg)
	case pkgerrors.ErrForbidden:
		response.Forbidden(c, codes.forbidden, msg)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
