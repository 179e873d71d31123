package errors

import "errors"

// ── 业务错误分类 ──
// Handler 层按分类映射 HTTP 状态码，Service 层返回带具体文案的 *BizError。

var (
	// ErrNotFound 记录不存在或已软删除
	ErrNotFound = errors.New("记录不存在")
	// ErrNoPermission 已认证但对该记录无操作权限
	ErrNoPermission = errors.New("无权限操作该记录")
	// ErrForbidden 角色整体不允许执行该操作
	ErrForbidden = errors.New("当前角色不允许执行该操作")
	// ErrBadRequest 缺少必填字段或参数非法
	ErrBadRequest = errors.New("参数错误")
)

// BizError 带分类的业务错误
type BizError struct {
	Kind    error
	Message string
}

// New 创建指定分类的业务错误
func New(kind error, message string) *BizError {
	return &BizError{Kind: kind, Message: message}
}

func (e *BizError) Error() string { return e.Message }

// Is 使 errors.Is(err, ErrNotFound) 等分类判断成立
func (e *BizError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap 返回错误分类
func (e *BizError) Unwrap() error { return e.Kind }

// KindOf 返回错误所属分类，非业务错误返回 nil
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrNoPermission, ErrForbidden, ErrBadRequest} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// MessageOf 返回业务错误文案
func MessageOf(err error) string {
	var biz *BizError
	if errors.As(err, &biz) {
		return biz.Message
	}
	return err.Error()
}
