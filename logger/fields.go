package logger

import (
	"time"

	"go.uber.org/zap"
)

// RequestID creates a field for the request id.
func RequestID(v string) zap.Field { return zap.String("request_id", v) }

// Method creates a field for the HTTP method.
func Method(v string) zap.Field { return zap.String("method", v) }

// Path creates a field for the request path.
func Path(v string) zap.Field { return zap.String("path", v) }

// Status creates a field for the response status code.
func Status(v int) zap.Field { return zap.Int("status", v) }

// Duration creates a field for the request duration.
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// Bytes creates a field for the number of response bytes written.
func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

// ClientIP creates a field for the caller address.
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// Username creates a field for the authenticated (or attempted) username.
func Username(v string) zap.Field { return zap.String("username", v) }

// AccountID creates a field for the resolved account id.
func AccountID(v string) zap.Field { return zap.String("account_id", v) }

// Component creates a field naming the emitting package.
func Component(v string) zap.Field { return zap.String("component", v) }

// Err creates a field for an error.
func Err(err error) zap.Field { return zap.Error(err) }
