// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package vartype

import (
	"encoding/json"
	"testing"
)

func TestNewVariable(t *testing.T) {
	v := NewVariable(1.5)
	if !v.IsSet() {
		t.Fatal("expected variable to be set")
	}
	if v.Value() != 1.5 {
		t.Errorf("expected value to be 1.5, got %f", v.Value())
	}
}

func TestVariable_Reset(t *testing.T) {
	v := NewVariable(42)
	v.Reset()
	if v.IsSet() {
		t.Error("expected variable to be unset after reset")
	}
	if v.Value() != 0 {
		t.Errorf("expected zero value after reset, got %d", v.Value())
	}
}

func TestVariable_ValueOr(t *testing.T) {
	t.Run("unset variable returns the fallback", func(t *testing.T) {
		var v VarFloat64
		if got := v.ValueOr(3); got != 3 {
			t.Errorf("expected fallback 3, got %f", got)
		}
	})
	t.Run("set variable returns its value", func(t *testing.T) {
		var v VarFloat64
		v.Set(0)
		if got := v.ValueOr(3); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
	})
}

func TestFromPointer(t *testing.T) {
	if FromPointer[int](nil).IsSet() {
		t.Error("expected nil pointer to produce unset variable")
	}
	val := 7
	v := FromPointer(&val)
	if !v.IsSet() || v.Value() != 7 {
		t.Errorf("expected set variable with value 7, got %s", v)
	}
}

func TestVariable_String(t *testing.T) {
	var v VarInt
	if v.String() != "n/a" {
		t.Errorf("expected placeholder, got %q", v.String())
	}
	v.Set(5)
	if v.String() != "5" {
		t.Errorf("expected 5, got %q", v.String())
	}
}

func TestVariable_JSON(t *testing.T) {
	type holder struct {
		Gust VarFloat64 `json:"gust"`
	}
	t.Run("unset variable encodes as null", func(t *testing.T) {
		data, err := json.Marshal(holder{})
		if err != nil {
			t.Fatalf("failed to marshal: %s", err)
		}
		if string(data) != `{"gust":null}` {
			t.Errorf("unexpected JSON: %s", data)
		}
	})
	t.Run("null decodes as unset and values decode as set", func(t *testing.T) {
		var h holder
		if err := json.Unmarshal([]byte(`{"gust":null}`), &h); err != nil {
			t.Fatalf("failed to unmarshal: %s", err)
		}
		if h.Gust.IsSet() {
			t.Error("expected gust to be unset")
		}
		if err := json.Unmarshal([]byte(`{"gust":4.2}`), &h); err != nil {
			t.Fatalf("failed to unmarshal: %s", err)
		}
		if !h.Gust.IsSet() || h.Gust.Value() != 4.2 {
			t.Errorf("expected gust 4.2, got %s", h.Gust)
		}
	})
	t.Run("invalid JSON fails", func(t *testing.T) {
		var h holder
		if err := json.Unmarshal([]byte(`{"gust":"fast"}`), &h); err == nil {
			t.Error("expected unmarshal to fail")
		}
	})
}
