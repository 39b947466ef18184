package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	s := miniredis.RunT(t)

	tests := []struct {
		name     string
		url      string
		wantDB   int
		wantName string
	}{
		{"default db", "redis://" + s.Addr(), 0, defaultClientName},
		{"db from path", "redis://" + s.Addr() + "/3", 3, defaultClientName},
		{"explicit client name", "redis://" + s.Addr() + "?client_name=worker", 0, "worker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.url, zerolog.Nop())
			require.NoError(t, err)
			defer client.Close()

			assert.Equal(t, tt.wantDB, client.Options().DB)
			assert.Equal(t, tt.wantName, client.Options().ClientName)
			assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
		})
	}
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "http://not-redis", zerolog.Nop())
	assert.ErrorContains(t, err, "parse redis url")
}

func TestNewClient_GivesUpWhenServerIsDown(t *testing.T) {
	s := miniredis.RunT(t)
	url := "redis://" + s.Addr()
	s.Close()

	prev := ConnectTimeout
	ConnectTimeout = 300 * time.Millisecond
	t.Cleanup(func() { ConnectTimeout = prev })

	_, err := NewClient(context.Background(), url, zerolog.Nop())
	assert.ErrorContains(t, err, "ping redis")
}

func TestNewClient_StopsOnCancelledContext(t *testing.T) {
	s := miniredis.RunT(t)
	url := "redis://" + s.Addr()
	s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := NewClient(ctx, url, zerolog.Nop())
	require.Error(t, err)
	assert.Less(t, time.Since(start), ConnectTimeout)
}
