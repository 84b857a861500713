package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Weekday 星期，0 表示周日，6 表示周六
type Weekday int

var weekdayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// Valid 是否在 0-6 范围内
func (d Weekday) Valid() bool {
	return d >= 0 && int(d) < len(weekdayNames)
}

// String 返回英文星期名
func (d Weekday) String() string {
	if !d.Valid() {
		return "Weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return weekdayNames[d]
}

// ParseWeekday 解析数字或英文星期名（全称或三字母缩写，不区分大小写）
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		d := Weekday(n)
		if !d.Valid() {
			return 0, fmt.Errorf("星期超出范围: %d", n)
		}
		return d, nil
	}
	for i, name := range weekdayNames {
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("无效的星期: %q", s)
}

// UnmarshalJSON 接受整数或星期名
func (d *Weekday) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParseWeekday(s)
		if err != nil {
			return err
		}
		*d = v
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("无效的星期: %s", string(b))
	}
	v := Weekday(n)
	if !v.Valid() {
		return fmt.Errorf("星期超出范围: %d", n)
	}
	*d = v
	return nil
}
