package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "tripchat/internal/adapters/redis"
	"tripchat/internal/domain"
)

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	var got []domain.HotelSummary
	ok, err := c.Get(ctx, "city-hotels:PAR", &got)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	rating := 4
	want := []domain.HotelSummary{{ID: "h1", Name: "Hotel Test", Rating: &rating}}
	if err := c.Set(ctx, "city-hotels:PAR", want, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	ok, err = c.Get(ctx, "city-hotels:PAR", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].ID != "h1" || got[0].Rating == nil || *got[0].Rating != 4 {
		t.Fatalf("unexpected value: %+v", got)
	}

	if err := c.Del(ctx, "city-hotels:PAR"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = c.Get(ctx, "city-hotels:PAR", &got)
	if ok {
		t.Fatal("expected miss after delete")
	}
}

func TestCache_TTLExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []string{"v"}, 30); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	var got []string
	if ok, _ := c.Get(ctx, "k", &got); ok {
		t.Fatal("expected expiry")
	}
}
