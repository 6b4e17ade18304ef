package tui

import (
	"errors"
	"net"
	"testing"
	"time"
)

func newTestAdmission(cfg AdmissionConfig, now *time.Time) *Admission {
	a := NewAdmission(cfg)
	a.now = func() time.Time { return *now }
	return a
}

func TestAdmissionRateLimitPerIP(t *testing.T) {
	now := time.Unix(1000, 0)
	a := newTestAdmission(AdmissionConfig{SessionsPerMinute: 60, Burst: 2}, &now)
	defer a.Stop()

	for i := range 2 {
		if err := a.Admit("10.0.0.1"); err != nil {
			t.Fatalf("admit %d: %v", i, err)
		}
	}
	if err := a.Admit("10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("third admit = %v, want ErrRateLimited", err)
	}
	if err := a.Admit("10.0.0.2"); err != nil {
		t.Errorf("other IP rejected: %v", err)
	}

	// One session per second refills one token.
	now = now.Add(time.Second)
	if err := a.Admit("10.0.0.1"); err != nil {
		t.Errorf("admit after refill: %v", err)
	}
}

func TestAdmissionCapacity(t *testing.T) {
	now := time.Unix(1000, 0)
	a := newTestAdmission(AdmissionConfig{SessionsPerMinute: 600, Burst: 10, MaxSessions: 2}, &now)
	defer a.Stop()

	if err := a.Admit("a"); err != nil {
		t.Fatal(err)
	}
	if err := a.Admit("b"); err != nil {
		t.Fatal(err)
	}
	if err := a.Admit("c"); !errors.Is(err, ErrAtCapacity) {
		t.Errorf("admit over capacity = %v, want ErrAtCapacity", err)
	}
	if a.Active() != 2 {
		t.Errorf("Active() = %d, want 2", a.Active())
	}

	a.Release()
	if err := a.Admit("c"); err != nil {
		t.Errorf("admit after release: %v", err)
	}
}

func TestAdmissionCleanup(t *testing.T) {
	now := time.Unix(1000, 0)
	a := newTestAdmission(AdmissionConfig{SessionsPerMinute: 60, Burst: 1}, &now)
	defer a.Stop()

	if err := a.Admit("old"); err != nil {
		t.Fatal(err)
	}
	a.Release()
	now = now.Add(time.Hour)
	if err := a.Admit("new"); err != nil {
		t.Fatal(err)
	}
	a.Release()

	a.cleanup(now.Add(-time.Minute))

	if _, ok := a.limiters.Load("old"); ok {
		t.Error("stale limiter kept")
	}
	if _, ok := a.limiters.Load("new"); !ok {
		t.Error("fresh limiter dropped")
	}
}

func TestAdmissionDefaults(t *testing.T) {
	a := NewAdmission(AdmissionConfig{})
	defer a.Stop()
	a.Stop()

	if a.config.SessionsPerMinute != DefaultAdmissionConfig.SessionsPerMinute ||
		a.config.Burst != DefaultAdmissionConfig.Burst {
		t.Errorf("config = %+v, want defaults", a.config)
	}
	if a.config.MaxSessions != 0 {
		t.Error("MaxSessions should stay unlimited")
	}
}

func TestRemoteIP(t *testing.T) {
	tests := []struct {
		addr net.Addr
		want string
	}{
		{&net.TCPAddr{IP: net.ParseIP("192.0.2.7"), Port: 2222}, "192.0.2.7"},
		{&net.TCPAddr{IP: net.ParseIP("2001:db8::1"), Port: 22}, "2001:db8::1"},
		{&net.UnixAddr{Name: "/tmp/sock", Net: "unix"}, "/tmp/sock"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := remoteIP(tt.addr); got != tt.want {
			t.Errorf("remoteIP(%v) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}
