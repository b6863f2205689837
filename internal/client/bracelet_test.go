package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iliyamo/bracelet-energy/internal/model"
)

func TestInfoFillsDisplayDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bracelet/abc123" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewBraceletClient(srv.URL)
	info, err := c.Info(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Owner != "未知主人" {
		t.Errorf("Owner = %q, want default", info.Owner)
	}
	if info.ChipID != "abc123" {
		t.Errorf("ChipID = %q, want the bracelet id", info.ChipID)
	}
	if info.Material != "天然材质" || info.BeadCount != "108" || info.Level != "初级" {
		t.Errorf("defaults not applied: %+v", info)
	}
	if info.EnergyLevel != 100 {
		t.Errorf("EnergyLevel = %v, want default 100", info.EnergyLevel)
	}
	if !info.IsActive {
		t.Error("IsActive = false, want default true")
	}
}

func TestInfoKeepsPayloadValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"owner":"王师傅","chipId":"chip-9","material":"小叶紫檀","beadCount":"18","level":"高级","energyLevel":42.5,"isActive":false}`))
	}))
	defer srv.Close()

	c := NewBraceletClient(srv.URL)
	info, err := c.Info(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Owner != "王师傅" || info.ChipID != "chip-9" || info.Material != "小叶紫檀" {
		t.Errorf("payload values overridden: %+v", info)
	}
	if info.EnergyLevel != 42.5 {
		t.Errorf("EnergyLevel = %v, want 42.5", info.EnergyLevel)
	}
	if info.IsActive {
		t.Error("IsActive = true, want payload value false")
	}
}

func TestVerifyAndStatusOnLookupFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewBraceletClient(srv.URL)
	if c.Verify(context.Background(), "missing") {
		t.Error("Verify = true for a 404 lookup")
	}
	if got := c.Status(context.Background(), "missing"); got != model.StatusDisconnected {
		t.Errorf("Status = %q, want disconnected", got)
	}
}

func TestVerifyAndStatusOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"owner":"王师傅"}`))
	}))
	defer srv.Close()

	c := NewBraceletClient(srv.URL)
	if !c.Verify(context.Background(), "abc123") {
		t.Error("Verify = false for a resolving bracelet")
	}
	if got := c.Status(context.Background(), "abc123"); got != model.StatusConnected {
		t.Errorf("Status = %q, want connected", got)
	}
}
