// Package tracer lets repository and service code emit spans through a small
// interface. NoopTracer is used in tests and OTelTracer reports to the
// global OpenTelemetry provider.
package tracer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// Span must be ended exactly once, typically via defer.
type Span interface {
	// End marks the span failed when err is non-nil.
	End(err error)
	SetAttributes(attrs ...Attribute)
}

// Tracer implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

type Attribute = attribute.KeyValue

var (
	String = attribute.String
	Bool   = attribute.Bool
	Int    = attribute.Int
	Int64  = attribute.Int64
)

// Span names.
const (
	SpanRepositoryList   = "repository.list"
	SpanRepositoryGet    = "repository.get"
	SpanRepositoryInsert = "repository.insert"
	SpanRepositoryDelete = "repository.delete"
	SpanNotifyReset      = "notify.password_reset"
)

// Attribute keys.
const (
	AttrEntity   = "entity"
	AttrRecordID = "record.id"
	AttrFound    = "found"
	AttrCount    = "count"
	AttrAffected = "affected"
	AttrAdapter  = "storage.adapter"
)
