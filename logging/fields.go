package logging

import (
	"time"

	"go.uber.org/zap"
)

// Field aliases so packages only ever import logging, not zap directly.

func String(key, val string) zap.Field {
	return zap.String(key, val)
}

func Bool(key string, val bool) zap.Field {
	return zap.Bool(key, val)
}

func Int64(key string, val int64) zap.Field {
	return zap.Int64(key, val)
}

func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

func Uint32(key string, val uint32) zap.Field {
	return zap.Uint32(key, val)
}

func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

func Time(key string, val time.Time) zap.Field {
	return zap.Time(key, val)
}

func Duration(key string, val time.Duration) zap.Field {
	return zap.Duration(key, val)
}

func Error(err error) zap.Field {
	return zap.Error(err)
}

// Stringer logs anything implementing fmt.Stringer lazily.
func Stringer(key string, val interface{ String() string }) zap.Field {
	return zap.Stringer(key, val)
}

func MakerID(id string) zap.Field {
	return zap.String("maker-id", id)
}

func QuoteID(id string) zap.Field {
	return zap.String("quote-id", id)
}

func Owner(owner string) zap.Field {
	return zap.String("owner", owner)
}
