package viewscan

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/elastic/go-freelru"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// TextCodec converts between Go strings and the store's native text
// encoding. Native text is never terminated.
type TextCodec interface {
	Encode(s string) ([]byte, error)
	Decode(native []byte) (string, error)
}

const (
	// DefaultTextCacheSize is the number of conversions remembered per
	// direction.
	DefaultTextCacheSize = 4096

	// Longer strings are converted every time; they rarely repeat.
	maxCachedTextLength = 256
)

var charsets = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8,
	"utf8":         unicode.UTF8,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"cp850":        charmap.CodePage850,
}

type cachedTextCodec struct {
	enc     encoding.Encoding
	encoded *freelru.SyncedLRU[string, []byte]
	decoded *freelru.SyncedLRU[string, string]
}

// NewTextCodec returns a codec for enc. Column text repeats a lot across
// entries (categories in particular), so conversions are kept in two LRU
// caches of cacheSize entries each. A cacheSize of 0 disables caching.
func NewTextCodec(enc encoding.Encoding, cacheSize uint32) (TextCodec, error) {
	c := &cachedTextCodec{enc: enc}
	if cacheSize == 0 {
		return c, nil
	}

	var err error
	c.encoded, err = freelru.NewSynced[string, []byte](cacheSize, hashText)
	if err != nil {
		return nil, fmt.Errorf("create encode cache: %w", err)
	}
	c.decoded, err = freelru.NewSynced[string, string](cacheSize, hashText)
	if err != nil {
		return nil, fmt.Errorf("create decode cache: %w", err)
	}
	return c, nil
}

// TextCodecForCharset looks the charset up by name, e.g. "utf-8" or
// "windows-1252".
func TextCodecForCharset(name string, cacheSize uint32) (TextCodec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "utf-8"
	}
	enc, ok := charsets[name]
	if !ok {
		var err error
		enc, err = htmlindex.Get(name)
		if err != nil {
			return nil, fmt.Errorf("unknown charset %q: %w", name, err)
		}
	}
	return NewTextCodec(enc, cacheSize)
}

// DefaultTextCodec is a cached UTF-8 codec.
func DefaultTextCodec() TextCodec {
	c, err := NewTextCodec(unicode.UTF8, DefaultTextCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

func hashText(s string) uint32 {
	return uint32(xxhash.Sum64String(s))
}

func (c *cachedTextCodec) Encode(s string) ([]byte, error) {
	cacheable := c.encoded != nil && len(s) <= maxCachedTextLength
	if cacheable {
		if native, ok := c.encoded.Get(s); ok {
			return slices.Clone(native), nil
		}
	}

	native, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	if cacheable {
		c.encoded.Add(s, slices.Clone(native))
	}
	return native, nil
}

func (c *cachedTextCodec) Decode(native []byte) (string, error) {
	if len(native) == 0 {
		return "", nil
	}
	cacheable := c.decoded != nil && len(native) <= maxCachedTextLength
	if cacheable {
		if s, ok := c.decoded.Get(string(native)); ok {
			return s, nil
		}
	}

	decoded, err := c.enc.NewDecoder().Bytes(native)
	if err != nil {
		return "", err
	}
	s := string(decoded)
	if cacheable {
		c.decoded.Add(string(native), s)
	}
	return s, nil
}
