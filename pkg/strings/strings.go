// Package strings provides pooled string building for colframe's error
// formatting and table rendering
package strings

import (
	"fmt"
	"sync"
	"unicode/utf8"
)

// Builder provides string building over a reusable byte buffer
type Builder struct {
	buf []byte
}

// NewBuilder creates a new string builder
func NewBuilder(capacity int) *Builder {
	return &Builder{
		buf: make([]byte, 0, capacity),
	}
}

// WriteString appends a string to the builder
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteByte appends a single byte
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// Write implements io.Writer
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteRepeat appends s n times
func (b *Builder) WriteRepeat(s string, n int) {
	for i := 0; i < n; i++ {
		b.buf = append(b.buf, s...)
	}
}

// String returns a copy of the accumulated bytes as a string
func (b *Builder) String() string {
	return string(b.buf)
}

// Bytes returns the underlying buffer. Valid until the next write or Reset.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len returns the number of accumulated bytes
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset empties the builder, keeping its capacity
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// Grow ensures space for another n bytes
func (b *Builder) Grow(n int) {
	if cap(b.buf)-len(b.buf) < n {
		newBuf := make([]byte, len(b.buf), 2*cap(b.buf)+n)
		copy(newBuf, b.buf)
		b.buf = newBuf
	}
}

// Global pools for different string building scenarios
var (
	// Small strings (< 1KB): error messages, single cells
	smallBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(1024)
		},
	}

	// Medium strings (1KB - 16KB): rendered tables, compressed dumps
	mediumBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(16 * 1024)
		},
	}

	// Large strings (16KB+)
	largeBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(64 * 1024)
		},
	}
)

// BuilderSize represents different builder sizes
type BuilderSize int

const (
	Small  BuilderSize = iota // < 1KB
	Medium                    // 1KB - 16KB
	Large                     // 16KB+
)

func poolFor(size BuilderSize) *sync.Pool {
	switch size {
	case Medium:
		return mediumBuilderPool
	case Large:
		return largeBuilderPool
	default:
		return smallBuilderPool
	}
}

// SizeFor picks the pool size class for an expected output length
func SizeFor(n int) BuilderSize {
	switch {
	case n > 16*1024:
		return Large
	case n > 1024:
		return Medium
	default:
		return Small
	}
}

// GetBuilder retrieves a pooled builder of the specified size
func GetBuilder(size BuilderSize) *Builder {
	builder := poolFor(size).Get().(*Builder)
	builder.Reset()
	return builder
}

// PutBuilder returns a builder to the appropriate pool
func PutBuilder(builder *Builder, size BuilderSize) {
	if builder == nil {
		return
	}
	builder.Reset()
	poolFor(size).Put(builder)
}

// Concat efficiently concatenates strings using pooled builder
func Concat(strings ...string) string {
	if len(strings) == 0 {
		return ""
	}
	if len(strings) == 1 {
		return strings[0]
	}

	totalLen := 0
	for _, s := range strings {
		totalLen += len(s)
	}

	size := SizeFor(totalLen)
	builder := GetBuilder(size)
	defer PutBuilder(builder, size)

	for _, s := range strings {
		builder.WriteString(s)
	}

	return builder.String()
}

// Sprintf provides a pooled alternative to fmt.Sprintf
func Sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}

	size := SizeFor(len(format) + len(args)*16)
	builder := GetBuilder(size)
	defer PutBuilder(builder, size)

	fmt.Fprintf(builder, format, args...)

	return builder.String()
}

// Width returns the display width of s in runes
func Width(s string) int {
	return utf8.RuneCountInString(s)
}

// PadRight writes s followed by spaces up to width runes
func PadRight(b *Builder, s string, width int) {
	b.WriteString(s)
	b.WriteRepeat(" ", width-Width(s))
}
