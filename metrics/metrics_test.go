package metrics

import (
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(AutoReplies.WithLabelValues("sent"))
	AutoReplies.WithLabelValues("sent").Inc()
	if got := testutil.ToFloat64(AutoReplies.WithLabelValues("sent")); got != before+1 {
		t.Errorf("afk_auto_replies_total{result=sent} = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(StateChanges.WithLabelValues("sweep"))
	StateChanges.WithLabelValues("sweep").Add(2)
	if got := testutil.ToFloat64(StateChanges.WithLabelValues("sweep")); got != before+2 {
		t.Errorf("afk_state_changes_total{reason=sweep} = %v, want %v", got, before+2)
	}
}

func TestServeDisabled(t *testing.T) {
	if srv := Serve(""); srv != nil {
		t.Fatal("Serve with empty addr returned a server")
	}
}

func TestServeExposesMetrics(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	srv := Serve(addr)
	t.Cleanup(func() { srv.Close() })
	StoreErrors.WithLabelValues("load").Inc()

	var body string
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			time.Sleep(20 * time.Millisecond)
			continue
		}
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		body = string(b)
		break
	}
	if !strings.Contains(body, "afk_store_errors_total") {
		t.Errorf("/metrics did not expose afk_store_errors_total")
	}
}
