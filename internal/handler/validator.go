package handler

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Trans 参数校验错误的翻译器，InitTrans 之前为 nil（此时返回 validator 原文）
var Trans ut.Translator

var (
	transOnce sync.Once
	transErr  error
)

// InitTrans 初始化校验错误翻译，locale 取 "zh" 或 "en"，只在第一次调用时生效
// 错误信息中的字段名使用请求里的参数名（json/form tag），如 job_id、conversation_id
func InitTrans(locale string) error {
	transOnce.Do(func() {
		transErr = initTrans(locale)
	})
	return transErr
}

func initTrans(locale string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	v.RegisterTagNameFunc(requestFieldName)

	enT := en.New()
	uni := ut.New(enT, zh.New(), enT)
	trans, found := uni.GetTranslator(locale)
	if !found {
		return fmt.Errorf("uni.GetTranslator(%s) failed", locale)
	}

	var err error
	if locale == "zh" {
		err = zh_translations.RegisterDefaultTranslations(v, trans)
	} else {
		err = en_translations.RegisterDefaultTranslations(v, trans)
	}
	if err != nil {
		return err
	}
	Trans = trans
	return nil
}

// requestFieldName 优先取 json tag，查询参数结构体只有 form tag 时取 form
func requestFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// RemoveTopStruct 去掉 "ApplyRequest.job_id" 中的结构体前缀
func RemoveTopStruct(fields map[string]string) map[string]string {
	res := make(map[string]string, len(fields))
	for field, msg := range fields {
		res[field[strings.Index(field, ".")+1:]] = msg
	}
	return res
}
