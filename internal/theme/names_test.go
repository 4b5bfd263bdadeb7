package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"default", "Default"},
		{"dark-ocean", "Dark Ocean"},
		{"retro_wave", "Retro Wave"},
		{"v2.theme", "V2 Theme"},
		{"--odd--", "Odd"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.in))
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Default", "default"},
		{"Dark Ocean", "dark-ocean"},
		{"Café Noir", "cafe-noir"},
		{"  Spaces   Everywhere ", "spaces-everywhere"},
		{"Über/Theme #2", "uber-theme-2"},
		{"already-slugged", "already-slugged"},
		{"Тёмная", "temnaya"},
		{"Щит и меч", "shchit-i-mech"},
		{"Ελληνικά", "ellinika"},
		{"日本", "u65e5-u672c"},
		{"Tokyo 東京", "tokyo-u6771-u4eac"},
		{"Объём", "obem"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}
