package release

import (
	"testing"
	"time"
)

func TestNewLocaleRejectsBadInput(t *testing.T) {
	tests := []struct {
		name, tag, zone, code string
	}{
		{"bad tag", "not a tag!", "UTC", "VND"},
		{"bad zone", "vi-VN", "Mars/Olympus", "VND"},
		{"bad currency", "vi-VN", "UTC", "XYZW"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLocale(tt.tag, tt.zone, tt.code); err == nil {
				t.Errorf("NewLocale(%q, %q, %q) error = nil", tt.tag, tt.zone, tt.code)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	day := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		tag  string
		want string
	}{
		{"vi-VN", "Thứ Bảy, 1 tháng 6, 2024"},
		{"en-US", "Saturday, June 1, 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			l := MustLocale(tt.tag, "UTC", "VND")
			if got := l.FormatDate(day); got != tt.want {
				t.Errorf("FormatDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDateUsesLocation(t *testing.T) {
	l := MustLocale("en-US", "Asia/Ho_Chi_Minh", "USD")
	// 20:00 UTC on May 31 is June 1 in UTC+7.
	got := l.FormatDate(time.Date(2024, time.May, 31, 20, 0, 0, 0, time.UTC))
	if got != "Saturday, June 1, 2024" {
		t.Errorf("FormatDate() = %q", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		tag, code string
		v         float64
		want      string
	}{
		{"vi-VN", "VND", 165000, "165.000 ₫"},
		{"vi-VN", "VND", 0, "0 ₫"},
		{"en-US", "USD", 1234.5, "$1,234.50"},
	}
	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.code, func(t *testing.T) {
			l := MustLocale(tt.tag, "UTC", tt.code)
			if got := l.FormatCurrency(tt.v); got != tt.want {
				t.Errorf("FormatCurrency(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}
