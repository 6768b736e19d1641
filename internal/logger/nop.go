package logger

import "context"

// Nop is a LoggerInterface that drops everything. Handy in tests.
type Nop struct{}

var _ LoggerInterface = Nop{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) LoggerInterface         { return n }
