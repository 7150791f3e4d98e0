package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestContextMetaRoundTrip(t *testing.T) {
	ctx := WithRID(context.Background(), "42:100:7")
	ctx = WithHandler(ctx, "start")
	ctx = WithUpdateMeta(ctx, 42, 7, 100)

	if got := RIDFrom(ctx); got != "42:100:7" {
		t.Fatalf("RIDFrom = %q", got)
	}
	if got := HandlerFrom(ctx); got != "start" {
		t.Fatalf("HandlerFrom = %q", got)
	}
	if got := UpdateIDFrom(ctx); got != 42 {
		t.Fatalf("UpdateIDFrom = %d", got)
	}
	if got := ChatIDFrom(ctx); got != 100 {
		t.Fatalf("ChatIDFrom = %d", got)
	}
	if got := UserIDFrom(ctx); got != 7 {
		t.Fatalf("UserIDFrom = %d", got)
	}
}

func TestContextAttrsEnrichment(t *testing.T) {
	ctx := WithRID(context.Background(), "42:100:7")
	ctx = WithHandler(ctx, "phone")
	ctx = WithUpdateMeta(ctx, 42, 7, 100)

	got := make(map[string]slog.Value)
	for _, a := range contextAttrs(ctx) {
		got[a.Key] = a.Value
	}
	if v, ok := got["rid"]; !ok || v.String() != "42:100:7" {
		t.Fatalf("rid attr = %v", v)
	}
	if v, ok := got["handler"]; !ok || v.String() != "phone" {
		t.Fatalf("handler attr = %v", v)
	}
	if v, ok := got["update_id"]; !ok || v.Int64() != 42 {
		t.Fatalf("update_id attr = %v", v)
	}
	if v, ok := got["chat_id"]; !ok || v.Int64() != 100 {
		t.Fatalf("chat_id attr = %v", v)
	}
	if v, ok := got["user_id"]; !ok || v.Int64() != 7 {
		t.Fatalf("user_id attr = %v", v)
	}
}

func TestContextAttrsEmptyContext(t *testing.T) {
	if attrs := contextAttrs(context.Background()); len(attrs) != 0 {
		t.Fatalf("expected no attrs, got %v", attrs)
	}
	if attrs := contextAttrs(nil); len(attrs) != 0 {
		t.Fatalf("expected no attrs for nil context, got %v", attrs)
	}
}
