package viewscan

import (
	"go.uber.org/zap"
)

type Option func(*Collection)

const defaultMaxRestarts = 3

func WithLogger(logger *zap.Logger) Option {
	return func(c *Collection) {
		c.logger = logger
	}
}

// WithTextCodec sets the native character set conversion, UTF-8 by default.
func WithTextCodec(codec TextCodec) Option {
	return func(c *Collection) {
		c.codec = codec
	}
}

// WithDateTimeContext sets the zone times are decoded into. fn is called
// once per scan step so a changing zone is picked up between steps.
func WithDateTimeContext(fn func() DateTimeContext) Option {
	return func(c *Collection) {
		c.dtc = fn
	}
}

// WithColumnNames names the summary value columns in order, enabling
// Entry.ColumnValue lookups by name.
func WithColumnNames(names ...string) Option {
	return func(c *Collection) {
		c.columnNames = names
	}
}

func WithPageSize(size uint32) Option {
	return func(c *Collection) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithMaxRestarts bounds how often a collection-wide read starts over after
// the index changed underneath it.
func WithMaxRestarts(restarts int) Option {
	return func(c *Collection) {
		if restarts >= 0 {
			c.maxRestarts = restarts
		}
	}
}
