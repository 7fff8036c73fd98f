package utils

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if got := Truncate("hello world", 5); got != "hello" {
		t.Errorf("got %q", got)
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
}

func TestTruncate_multiByte(t *testing.T) {
	s := "Тёмный рыцарь 🦇.mkv"
	got := Truncate(s, 15)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated string is not valid UTF-8: %q", got)
	}
	if RuneLen(got) != 15 {
		t.Errorf("rune length = %d, want 15", RuneLen(got))
	}
	if got != "Тёмный рыцарь 🦇" {
		t.Errorf("got %q", got)
	}
}

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"ёж", 2},
		{"📁", 2},
		{"a📦b", 4},
	}
	for _, tt := range tests {
		if got := UTF16Len(tt.in); got != tt.want {
			t.Errorf("UTF16Len(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
