package viewscan

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/RichardKnop/viewscan/internal/pkg/logging"
	"github.com/RichardKnop/viewscan/internal/viewscan"
)

// CollectionConfig holds parsed collection string parameters
type CollectionConfig struct {
	View             string   // View name, passed through to the store connection
	Charset          string   // Native character set (default: utf-8)
	Columns          []string // Programmatic column names, in column order
	PageSize         uint32   // Entries per scan step in collection-wide reads (0 = as many as fit)
	MaxRestarts      int      // Restarts after an index change (default: 3)
	GMTOffsetMinutes int      // Zone times are decoded into, east positive
	Daylight         bool     // Daylight saving in effect
	LogLevel         string   // Log level: debug, info, warn, error (default: warn)
}

func DefaultCollectionConfig(view string) *CollectionConfig {
	return &CollectionConfig{
		View:        view,
		Charset:     "utf-8",
		MaxRestarts: defaultMaxRestarts,
		LogLevel:    "warn",
	}
}

// ParseCollectionString parses a view name with optional query parameters.
//
// Format: view?param1=value1&param2=value2
//
// Supported parameters:
//   - charset=<name>          : native character set, e.g. windows-1252
//   - columns=a,b,c           : programmatic column names
//   - page_size=<n>           : entries per scan step
//   - max_restarts=<n>        : restarts after an index change
//   - gmt_offset=<minutes>    : decode zone offset
//   - daylight=true|false     : daylight saving in effect
//   - log_level=debug|info|warn|error
//
// Examples:
//   - "People"                              : Default settings
//   - "People?charset=cp850&page_size=200"  : Legacy charset, small steps
func ParseCollectionString(s string) (*CollectionConfig, error) {
	parts := strings.SplitN(s, "?", 2)

	config := DefaultCollectionConfig(parts[0])

	if len(parts) == 1 {
		return config, nil
	}

	queryParams, err := url.ParseQuery(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid collection string query parameters: %w", err)
	}

	if charset := queryParams.Get("charset"); charset != "" {
		config.Charset = strings.ToLower(charset)
	}

	if columns := queryParams.Get("columns"); columns != "" {
		for _, name := range strings.Split(columns, ",") {
			if name = strings.TrimSpace(name); name != "" {
				config.Columns = append(config.Columns, name)
			}
		}
	}

	if pageSizeStr := queryParams.Get("page_size"); pageSizeStr != "" {
		pageSize, err := strconv.ParseUint(pageSizeStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid page_size parameter: must be a non-negative integer, got %q", pageSizeStr)
		}
		config.PageSize = uint32(pageSize)
	}

	if restartsStr := queryParams.Get("max_restarts"); restartsStr != "" {
		restarts, err := strconv.Atoi(restartsStr)
		if err != nil {
			return nil, fmt.Errorf("invalid max_restarts parameter: must be an integer, got %q", restartsStr)
		}
		if restarts < 0 {
			return nil, fmt.Errorf("invalid max_restarts parameter: must be non-negative, got %d", restarts)
		}
		config.MaxRestarts = restarts
	}

	if offsetStr := queryParams.Get("gmt_offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, fmt.Errorf("invalid gmt_offset parameter: must be minutes, got %q", offsetStr)
		}
		if offset < -14*60 || offset > 14*60 {
			return nil, fmt.Errorf("invalid gmt_offset parameter: %d minutes is out of range", offset)
		}
		config.GMTOffsetMinutes = offset
	}

	if daylightStr := queryParams.Get("daylight"); daylightStr != "" {
		daylight, err := strconv.ParseBool(daylightStr)
		if err != nil {
			return nil, fmt.Errorf("invalid daylight parameter: must be 'true' or 'false', got %q", daylightStr)
		}
		config.Daylight = daylight
	}

	if logLevel := queryParams.Get("log_level"); logLevel != "" {
		logLevel = strings.ToLower(logLevel)
		switch logLevel {
		case "debug", "info", "warn", "error":
			config.LogLevel = logLevel
		default:
			return nil, fmt.Errorf("invalid log_level parameter: must be 'debug', 'info', 'warn', or 'error', got %q", logLevel)
		}
	}

	return config, nil
}

// Options turns the config into collection options. It builds the logger
// and resolves the character set.
func (c *CollectionConfig) Options() ([]Option, error) {
	codec, err := viewscan.TextCodecForCharset(c.Charset, viewscan.DefaultTextCacheSize)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	logConf := logging.DefaultConfig()
	logConf.Level = zap.NewAtomicLevelAt(level)
	logger, err := logConf.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	dtc := DateTimeContext{GMTOffsetMinutes: c.GMTOffsetMinutes, Daylight: c.Daylight}
	return []Option{
		WithLogger(logger),
		WithTextCodec(codec),
		WithDateTimeContext(func() DateTimeContext { return dtc }),
		WithColumnNames(c.Columns...),
		WithPageSize(c.PageSize),
		WithMaxRestarts(c.MaxRestarts),
	}, nil
}
