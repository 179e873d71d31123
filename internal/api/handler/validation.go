package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"

	"workdesk/internal/model"
	"workdesk/pkg/response"
)

var (
	setupOnce sync.Once
	setupErr  error
	trans     ut.Translator
)

// SetupValidator 在 gin 的校验引擎上注册自定义规则与中文翻译
// 重复调用只生效一次
func SetupValidator() error {
	setupOnce.Do(func() {
		setupErr = setupValidator()
	})
	return setupErr
}

func setupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("binding 校验引擎不是 validator/v10")
	}

	// 错误信息使用 JSON 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return err
	}
	if err := v.RegisterValidation("item_status", func(fl validator.FieldLevel) bool {
		return model.IsValidStatus(fl.Field().String())
	}); err != nil {
		return err
	}

	zhLocale := zh.New()
	uni := ut.New(zhLocale, zhLocale)
	trans, _ = uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return err
	}

	custom := map[string]string{
		"notblank":    "{0}不能为空",
		"item_status": "{0}必须是有效的状态值",
	}
	for tag, text := range custom {
		tag, text := tag, text
		err := v.RegisterTranslation(tag, trans,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(tag, fe.Field())
				return msg
			},
		)
		if err != nil {
			return fmt.Errorf("注册 %s 翻译失败: %w", tag, err)
		}
	}
	return nil
}

// validationMessage 将绑定错误转换为中文提示
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && trans != nil && len(ve) > 0 {
		return ve[0].Translate(trans)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return "请求体格式错误"
	}
	return "参数校验失败"
}

// bindJSON 绑定并校验请求体，失败时写入 400 响应
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

func writeBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
		return
	}
	response.BadRequest(c, 10001, validationMessage(err))
}

// bindOptionalJSON 与 bindJSON 相同，但允许请求体为空
func bindOptionalJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(req)
	}
	if err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}
