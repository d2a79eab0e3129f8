package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{name: "no origin", want: true},
		{name: "same host", origin: "http://127.0.0.1:8080", want: true},
		{name: "foreign site", origin: "https://evil.example", want: false},
		{name: "other port", origin: "http://127.0.0.1:9999", want: false},
		{name: "allowlisted", origin: "http://localhost:5173", allowed: []string{"http://localhost:5173/"}, want: true},
		{name: "opaque origin", origin: "null", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "http://127.0.0.1:8080/ws/admin", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, OriginAllowed(r, tt.allowed))
		})
	}
}
