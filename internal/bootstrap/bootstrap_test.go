package bootstrap

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/adapter/memory"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/infra"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/payment"
)

func TestOpenStoreMockModeUsesSeededMemory(t *testing.T) {
	store, closeFn, err := OpenStore(context.Background(), &infra.Config{MockMode: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer closeFn()
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("store = %T, want *memory.Store", store)
	}
	if _, err := store.Campaigns().Get(context.Background(), memory.SeedID("campaign", 1)); err != nil {
		t.Fatalf("seeded campaign missing: %v", err)
	}
}

func TestOpenStoreRequiresDatabaseOutsideMockMode(t *testing.T) {
	if _, _, err := OpenStore(context.Background(), &infra.Config{}, zerolog.Nop()); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestOpenGateway(t *testing.T) {
	gw, err := OpenGateway(&infra.Config{MockMode: true})
	if err != nil {
		t.Fatalf("mock gateway: %v", err)
	}
	if _, ok := gw.(payment.Simulator); !ok {
		t.Fatalf("mock gateway %T cannot simulate captures", gw)
	}

	gw, err = OpenGateway(&infra.Config{RazorpayKeyID: "rzp_test_key", RazorpayKeySecret: "secret"})
	if err != nil {
		t.Fatalf("razorpay gateway: %v", err)
	}
	if gw.Name() != "razorpay" {
		t.Fatalf("gateway name = %q", gw.Name())
	}

	if _, err := OpenGateway(&infra.Config{}); err == nil {
		t.Fatal("expected error without razorpay keys")
	}
}
