package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewClient(ctx, Config{URL: "redis://" + s.Addr(), DialTimeout: time.Second})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, time.Second, client.Options().DialTimeout)
	require.NoError(t, client.Set(ctx, "k", "v", 0).Err())
	assert.True(t, s.Exists("k"))
}

func TestNewClient_Errors(t *testing.T) {
	down := miniredis.RunT(t)
	downURL := "redis://" + down.Addr()
	down.Close()

	tests := []struct {
		name string
		url  string
	}{
		{name: "invalid url", url: "://bad-url"},
		{name: "server down", url: downURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(context.Background(), Config{URL: tt.url, DialTimeout: 200 * time.Millisecond})
			assert.Error(t, err)
		})
	}
}
