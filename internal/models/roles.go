package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// 角色标签
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// IsKnownRole 判断是否为已知角色
func IsKnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// Roles 角色集合，以JSON数组存储
type Roles []string

// NormalizeRoles 去空格、转小写、去重并校验角色，保持原有顺序
func NormalizeRoles(in []string) (Roles, error) {
	out := make(Roles, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, r := range in {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" || seen[r] {
			continue
		}
		if !IsKnownRole(r) {
			return nil, fmt.Errorf("未知角色: %s", r)
		}
		seen[r] = true
		out = append(out, r)
	}
	return out, nil
}

// Has 是否包含指定角色
func (r Roles) Has(role string) bool {
	for _, v := range r {
		if v == role {
			return true
		}
	}
	return false
}

// HasAny 是否包含任一角色
func (r Roles) HasAny(roles ...string) bool {
	for _, role := range roles {
		if r.Has(role) {
			return true
		}
	}
	return false
}

// Scan 实现sql.Scanner接口
// 兼容旧数据中逗号分隔的格式
func (r *Roles) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*r = Roles{}
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("无法解析角色字段: %T", value)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*r = Roles{}
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return fmt.Errorf("解析角色JSON失败: %w", err)
		}
		*r = Roles(list)
		return nil
	}

	parts := strings.Split(raw, ",")
	list := make(Roles, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	*r = list
	return nil
}

// Value 实现driver.Valuer接口
func (r Roles) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(r))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// MarshalJSON 空集合输出为 [] 而不是 null
func (r Roles) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(r))
}
