package http_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkghttp "github.com/BradenHooton/dashgate/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestExtractClientIP(t *testing.T) {
	proxies := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8", "::1/128", "not-a-cidr"}}

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		config     *pkghttp.IPConfig
		want       string
	}{
		{
			name:       "untrusted peer ignores forwarding headers",
			remoteAddr: "203.0.113.10:54321",
			xff:        "1.2.3.4",
			xRealIP:    "192.168.1.1",
			config:     proxies,
			want:       "203.0.113.10",
		},
		{
			name:       "trusted proxy uses first valid X-Forwarded-For entry",
			remoteAddr: "10.0.0.5:54321",
			xff:        "garbage, 203.0.113.42, 10.0.0.5",
			config:     proxies,
			want:       "203.0.113.42",
		},
		{
			name:       "trusted proxy falls back to X-Real-IP",
			remoteAddr: "10.0.0.5:54321",
			xRealIP:    "203.0.113.7",
			config:     proxies,
			want:       "203.0.113.7",
		},
		{
			name:       "trusted IPv6 proxy",
			remoteAddr: "[::1]:54321",
			xff:        "2001:db8::1",
			config:     proxies,
			want:       "2001:db8::1",
		},
		{
			name:       "nil config trusts only RemoteAddr",
			remoteAddr: "10.0.0.5:1234",
			xff:        "1.2.3.4",
			config:     nil,
			want:       "10.0.0.5",
		},
		{
			name:       "RemoteAddr without port",
			remoteAddr: "198.51.100.3",
			config:     proxies,
			want:       "198.51.100.3",
		},
		{
			name:       "trusted proxy with no valid header",
			remoteAddr: "10.1.2.3:80",
			xff:        "not-an-ip",
			config:     proxies,
			want:       "10.1.2.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			assert.Equal(t, tt.want, pkghttp.ExtractClientIP(req, tt.config))
		})
	}
}

func TestExtractClientIP_EmptyRemoteAddr(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = ""
	assert.Equal(t, "unknown", pkghttp.ExtractClientIP(req, nil))
}

func TestUserAgent_Truncates(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("User-Agent", strings.Repeat("a", 600))

	assert.Len(t, pkghttp.UserAgent(req), 512)
}

func TestUserAgent_Trims(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("User-Agent", "  curl/8.0  ")

	assert.Equal(t, "curl/8.0", pkghttp.UserAgent(req))
}
