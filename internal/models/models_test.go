package models_test

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"

	"radio-go/internal/models"
)

func TestRolesScan(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected models.Roles
	}{
		{name: "json array", value: `["admin","user"]`, expected: models.Roles{"admin", "user"}},
		{name: "json bytes", value: []byte(`["moderator"]`), expected: models.Roles{"moderator"}},
		{name: "legacy comma joined", value: "admin, moderator,", expected: models.Roles{"admin", "moderator"}},
		{name: "single legacy value", value: "user", expected: models.Roles{"user"}},
		{name: "empty string", value: "", expected: models.Roles{}},
		{name: "null", value: nil, expected: models.Roles{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			var r models.Roles
			c.Assert(r.Scan(tt.value), qt.IsNil)
			c.Assert(r, qt.DeepEquals, tt.expected)
		})
	}
}

func TestRolesValue(t *testing.T) {
	c := qt.New(t)

	v, err := models.Roles{"admin", "user"}.Value()
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, `["admin","user"]`)

	v, err = models.Roles(nil).Value()
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, "[]")

	b, err := json.Marshal(models.Roles(nil))
	c.Assert(err, qt.IsNil)
	c.Assert(string(b), qt.Equals, "[]")
}

func TestNormalizeRoles(t *testing.T) {
	c := qt.New(t)

	r, err := models.NormalizeRoles([]string{" Admin", "user", "admin", ""})
	c.Assert(err, qt.IsNil)
	c.Assert(r, qt.DeepEquals, models.Roles{"admin", "user"})
	c.Assert(r.Has("admin"), qt.IsTrue)
	c.Assert(r.HasAny("moderator", "user"), qt.IsTrue)
	c.Assert(r.HasAny("moderator"), qt.IsFalse)

	_, err = models.NormalizeRoles([]string{"superuser"})
	c.Assert(err, qt.ErrorMatches, "未知角色: superuser")

	r, err = models.NormalizeRoles(nil)
	c.Assert(err, qt.IsNil)
	c.Assert(r, qt.HasLen, 0)
}

func TestWeekdayUnmarshal(t *testing.T) {
	tests := []struct {
		input    string
		expected models.Weekday
		wantErr  bool
	}{
		{input: `0`, expected: 0},
		{input: `6`, expected: 6},
		{input: `"Monday"`, expected: 1},
		{input: `"sat"`, expected: 6},
		{input: `"3"`, expected: 3},
		{input: `7`, wantErr: true},
		{input: `-1`, wantErr: true},
		{input: `"funday"`, wantErr: true},
		{input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := qt.New(t)

			var d models.Weekday
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				c.Assert(err, qt.IsNotNil)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(d, qt.Equals, tt.expected)
		})
	}
}

func TestWeekdayMarshalsAsInteger(t *testing.T) {
	c := qt.New(t)

	b, err := json.Marshal(models.ScheduleItem{DayOfWeek: 5})
	c.Assert(err, qt.IsNil)

	var out map[string]interface{}
	c.Assert(json.Unmarshal(b, &out), qt.IsNil)
	c.Assert(out["dayOfWeek"], qt.Equals, float64(5))
	c.Assert(models.Weekday(5).String(), qt.Equals, "friday")
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	c := qt.New(t)

	b, err := json.Marshal(models.User{Username: "dj", PasswordHash: "$2a$10$secret"})
	c.Assert(err, qt.IsNil)
	c.Assert(string(b), qt.Not(qt.Contains), "secret")
	c.Assert(string(b), qt.Not(qt.Contains), "password")
}
