package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/motorshare/authcore/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "192.0.2.10:54321",
			want:       "192.0.2.10",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.0.2.10",
			want:       "192.0.2.10",
		},
		{
			name:       "cloudflare header wins",
			remoteAddr: "10.0.0.1:80",
			headers: map[string]string{
				"CF-Connecting-IP": "203.0.113.7",
				"X-Forwarded-For":  "198.51.100.1",
			},
			want: "203.0.113.7",
		},
		{
			name:       "forwarded chain takes first valid entry",
			remoteAddr: "10.0.0.1:80",
			headers: map[string]string{
				"X-Forwarded-For": "not-an-ip, 198.51.100.1, 10.0.0.2",
			},
			want: "198.51.100.1",
		},
		{
			name:       "real ip fallback",
			remoteAddr: "10.0.0.1:80",
			headers: map[string]string{
				"X-Real-IP": "198.51.100.9",
			},
			want: "198.51.100.9",
		},
		{
			name:       "invalid header values skipped",
			remoteAddr: "192.0.2.10:80",
			headers: map[string]string{
				"CF-Connecting-IP": "garbage",
				"X-Forwarded-For":  "also garbage",
			},
			want: "192.0.2.10",
		},
		{
			name:       "ipv6 normalized",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "unparseable remote addr",
			remoteAddr: "garbage",
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, clientip.GetIP(r))
		})
	}
}
