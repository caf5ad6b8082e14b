package app

import (
	"chatoverlay/internal/app/infrastructure/config"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannel(t *testing.T) {
	tests := []struct {
		raw     string
		id      string
		login   string
		wantErr bool
	}{
		{raw: "22484632-forsen", id: "22484632", login: "forsen"},
		{raw: "22484632-Forsen", id: "22484632", login: "forsen"},
		{raw: "xQc", login: "xqc"},
		{raw: "-forsen", wantErr: true},
		{raw: "123-", wantErr: true},
		{raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, login, err := ParseChannel(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.login, login)
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	client, err := newHTTPClient(nil)
	require.NoError(t, err)
	assert.NotNil(t, client.Transport)

	client, err = newHTTPClient(&config.Proxy{Address: "127.0.0.1", Port: 1080})
	require.NoError(t, err)
	_, custom := client.Transport.(*http.Transport)
	assert.True(t, custom)
}
