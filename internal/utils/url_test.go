package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		elems []string
		want  string
	}{
		{
			name:  "plain join",
			base:  "https://host/releases/v1",
			elems: []string{"pkg-1.0.0.zip"},
			want:  "https://host/releases/v1/pkg-1.0.0.zip",
		},
		{
			name:  "trailing slash on base",
			base:  "https://host/releases/v1/",
			elems: []string{"pkg-1.0.0.zip"},
			want:  "https://host/releases/v1/pkg-1.0.0.zip",
		},
		{
			name:  "leading slash on element",
			base:  "https://host/releases/v1",
			elems: []string{"/pkg-1.0.0.zip"},
			want:  "https://host/releases/v1/pkg-1.0.0.zip",
		},
		{
			name:  "multiple elements",
			base:  "https://meta.example/raw/",
			elems: []string{"resources", "com.example.pkg", "icon.png"},
			want:  "https://meta.example/raw/resources/com.example.pkg/icon.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinURL(tt.base, tt.elems...))
		})
	}
}
