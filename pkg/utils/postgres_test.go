package utils

import "testing"

func TestPoolConfigDefaults(t *testing.T) {
	c := PostgresPoolConfig{}.withDefaults()
	if c.MaxOpenConns <= 0 || c.MaxIdleConns <= 0 {
		t.Fatalf("expected positive pool defaults, got %+v", c)
	}
	if c.PingTimeout <= 0 {
		t.Fatalf("expected ping timeout default, got %+v", c)
	}
}
