package adapter

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

func TestLogMailDispatcherDoesNotLogBody(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := NewLogMailDispatcher(logger.NewFromCore(core))

	require.NoError(t, d.Send(context.Background(), "a@example.com", "Password Reset Request", "secret-link"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "a@example.com", fields["to"])
	for _, v := range fields {
		assert.NotEqual(t, "secret-link", v)
	}
}

func TestSMTPMailDispatcherHonoursCancelledContext(t *testing.T) {
	d := NewSMTPMailDispatcher(SMTPConfig{Host: "localhost", Port: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Send(ctx, "a@example.com", "s", "b"), context.Canceled)
}

// silentServer accepts connections and never speaks, like a stalled SMTP server.
func silentServer(t *testing.T) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	t.Cleanup(func() {
		ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			c.Close()
		}
	})
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func TestSMTPMailDispatcherGivesUpOnStalledServer(t *testing.T) {
	host, port := silentServer(t)
	d := NewSMTPMailDispatcher(SMTPConfig{Host: host, Port: port, Sender: "blog@example.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- d.Send(ctx, "a@example.com", "s", "b") }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("Send did not return after its deadline")
	}
}

func TestSMTPMailDispatcherGivesUpOnCancel(t *testing.T) {
	host, port := silentServer(t)
	d := NewSMTPMailDispatcher(SMTPConfig{Host: host, Port: port, Sender: "blog@example.com"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Send(ctx, "a@example.com", "s", "b") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Send did not return after cancel")
	}
}
