package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestBizError_Is(t *testing.T) {
	err := New(ErrNotFound, "日程不存在")

	if !errors.Is(err, ErrNotFound) {
		t.Error("期望 errors.Is(err, ErrNotFound) 成立")
	}
	if errors.Is(err, ErrForbidden) {
		t.Error("不应匹配 ErrForbidden")
	}
	if err.Error() != "日程不存在" {
		t.Errorf("期望文案=日程不存在，实际=%s", err.Error())
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("更新失败: %w", New(ErrNoPermission, "无权限修改该日程"))

	if KindOf(err) != ErrNoPermission {
		t.Errorf("期望 ErrNoPermission，实际: %v", KindOf(err))
	}
	if MessageOf(err) != "无权限修改该日程" {
		t.Errorf("期望文案=无权限修改该日程，实际=%s", MessageOf(err))
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if KindOf(errors.New("connection refused")) != nil {
		t.Error("普通错误不应有业务分类")
	}
}
