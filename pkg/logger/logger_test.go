package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithContextID(ctx, "tab-1")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"request_id\":\"req-123\"")) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"context_id\":\"tab-1\"")) {
		t.Fatalf("expected context_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("expected stack trace on error; entry=%s", buf.String())
	}
}

func TestLoggerWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf, WarnStack: true})
	log.Warn(context.Background(), "warny")
	if !bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("expected stack when warn stack enabled")
	}

	buf.Reset()
	quiet := New(Options{ServiceName: "test", Output: buf})
	quiet.Warn(context.Background(), "warny")
	if bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("did not expect stack when warn stack disabled")
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fallback to info, got %v", lvl)
	}
	if lvl := ParseLevel(" DEBUG "); lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %v", lvl)
	}
}

func TestWithFieldsAttachesCollection(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf})
	ctx := log.WithFields(context.Background(), map[string]any{"collection": "products"})
	log.Info(ctx, "hello")
	if !bytes.Contains(buf.Bytes(), []byte("\"collection\":\"products\"")) {
		t.Fatalf("expected collection field; entry=%s", buf.String())
	}
}

func TestLoggerStampsEnvironmentAndInstance(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "storefront", Environment: " Prod ", Instance: "web.1", Output: buf})
	log.Info(context.Background(), "ready")

	if !bytes.Contains(buf.Bytes(), []byte("\"env\":\"prod\"")) {
		t.Fatalf("expected normalized env field; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"instance\":\"web.1\"")) {
		t.Fatalf("expected instance field; entry=%s", buf.String())
	}

	buf.Reset()
	bare := New(Options{ServiceName: "storefront", Output: buf})
	bare.Info(context.Background(), "ready")
	if bytes.Contains(buf.Bytes(), []byte("\"env\"")) {
		t.Fatalf("did not expect env field when unset; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"instance\"")) {
		t.Fatalf("expected instance fallback; entry=%s", buf.String())
	}
}
