package netutil

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return false }

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("bad request"), false},
		{"timeout", timeoutErr{}, true},
		{"dial failure", &net.OpError{Op: "dial", Err: errors.New("no route")}, true},
		{"read on open conn", &net.OpError{Op: "read", Err: errors.New("broken pipe")}, false},
		{"connection reset", fmt.Errorf("send: %w", syscall.ECONNRESET), true},
		{"connection refused", fmt.Errorf("send: %w", syscall.ECONNREFUSED), true},
		{"url wrapping dial", &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: &net.OpError{Op: "dial", Err: errors.New("no route")}}, true},
		{"url wrapping permanent", &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: errors.New("unsupported protocol")}, false},
	}
	for _, tc := range cases {
		if got := ShouldRetry(tc.err); got != tc.want {
			t.Errorf("%s: ShouldRetry = %v, want %v", tc.name, got, tc.want)
		}
	}
}
