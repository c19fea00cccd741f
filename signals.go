package wire

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalPlanCompiled   = capitan.NewSignal("wire.plan.compiled", "Type plan compiled and cached")
	SignalEncodeStart    = capitan.NewSignal("wire.encode.start", "Encode operation beginning")
	SignalEncodeComplete = capitan.NewSignal("wire.encode.complete", "Encode operation finished")
	SignalDecodeStart    = capitan.NewSignal("wire.decode.start", "Decode operation beginning")
	SignalDecodeComplete = capitan.NewSignal("wire.decode.complete", "Decode operation finished")
)

// Keys for typed event data.
var (
	KeyTypeName   = capitan.NewStringKey("type_name")
	KeySize       = capitan.NewIntKey("size")
	KeyFieldCount = capitan.NewIntKey("field_count")
	KeyDuration   = capitan.NewDurationKey("duration")
	KeyError      = capitan.NewErrorKey("error")
)

// emitPlanCompiled emits an event when a plan is compiled.
func emitPlanCompiled(ctx context.Context, typeName string, fields int) {
	capitan.Emit(ctx, SignalPlanCompiled,
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fields),
	)
}

// emitEncodeStart emits an event when encode begins.
func emitEncodeStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyTypeName.Field(typeName),
	)
}

// emitEncodeComplete emits an event when encode finishes.
func emitEncodeComplete(ctx context.Context, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitDecodeStart emits an event when decode begins.
func emitDecodeStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyTypeName.Field(typeName),
	)
}

// emitDecodeComplete emits an event when decode finishes.
func emitDecodeComplete(ctx context.Context, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}
