// Package patch 实现稀疏更新：请求体中出现的字段才会被写入，
// 缺省字段保持不变，出现但为空值的字段同样视为一次更新。
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"radio-go/internal/utils"
)

// UpdatedAtColumn 自动刷新的时间戳列
const UpdatedAtColumn = "updated_at"

// ErrNotObject 请求体不是JSON对象
var ErrNotObject = errors.New("请求体必须是JSON对象")

// Patch 原始请求体，键是否存在决定字段是否更新
type Patch map[string]json.RawMessage

// Decode 解析请求体，空请求体视为空补丁
func Decode(body []byte) (Patch, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Patch{}, nil
	}
	if body[0] != '{' {
		return nil, ErrNotObject
	}
	var p Patch
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	return p, nil
}

// Has 补丁中是否包含某个键
func (p Patch) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// FieldError 单个字段解析或校验失败
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("字段 %s 无效: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Field 可更新字段的定义
type Field struct {
	// Key 请求体中的JSON键
	Key string
	// Column 数据库列名
	Column string
	// Nullable 为 true 时 null 会把列置为 NULL，否则 null 是错误
	Nullable bool
	// Decode 把原始JSON转换为写入数据库的值，包括校验和变换（如密码哈希）
	Decode func(raw json.RawMessage) (interface{}, error)
}

// Schema 实体的可更新字段表
type Schema struct {
	Fields []Field
	// Touch 为 true 时有字段更新就追加 updated_at
	Touch bool
	// Now 时间来源，为空时使用 time.Now
	Now func() time.Time
}

// Assignments 根据补丁生成 列 -> 值 的赋值表
// 未识别的键被忽略；没有任何字段被选中时返回空表
func (s Schema) Assignments(p Patch) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	for _, f := range s.Fields {
		raw, ok := p[f.Key]
		if !ok {
			continue
		}

		if isNull(raw) {
			if !f.Nullable {
				return nil, &FieldError{Field: f.Key, Err: errors.New("不能为null")}
			}
			out[f.Column] = nil
			continue
		}

		v, err := f.Decode(raw)
		if err != nil {
			return nil, &FieldError{Field: f.Key, Err: err}
		}
		out[f.Column] = v
	}

	if s.Touch && len(out) > 0 {
		out[UpdatedAtColumn] = s.now()
	}
	return out, nil
}

func (s Schema) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// Custom 解码为 T 后交给 convert 做校验和变换，convert 为空时原样写入
func Custom[T any](key, column string, convert func(T) (interface{}, error)) Field {
	return Field{
		Key:    key,
		Column: column,
		Decode: func(raw json.RawMessage) (interface{}, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, fmt.Errorf("类型错误: %w", err)
			}
			if convert == nil {
				return v, nil
			}
			return convert(v)
		},
	}
}

// String 非空字符串字段，rules 为 validator 标签
func String(key, column, rules string) Field {
	return Custom(key, column, func(v string) (interface{}, error) {
		if v == "" {
			return nil, errors.New("不能为空")
		}
		return v, validate(key, v, rules)
	})
}

// NullableString 可选字符串字段，null 写入 NULL
func NullableString(key, column, rules string) Field {
	f := Custom(key, column, func(v string) (interface{}, error) {
		return v, validate(key, v, rules)
	})
	f.Nullable = true
	return f
}

// Bool 布尔字段
func Bool(key, column string) Field {
	return Custom[bool](key, column, nil)
}

// ID 引用字段，必须为正整数
func ID(key, column string) Field {
	return Custom(key, column, func(v uint) (interface{}, error) {
		if v == 0 {
			return nil, errors.New("必须为正整数")
		}
		return v, nil
	})
}

// NullableID 可选引用字段，null 写入 NULL
func NullableID(key, column string) Field {
	f := ID(key, column)
	f.Nullable = true
	return f
}

func validate(key string, v interface{}, rules string) error {
	if rules == "" {
		return nil
	}
	return utils.ValidateVar(key, v, rules)
}
