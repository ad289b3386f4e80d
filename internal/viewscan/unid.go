package viewscan

import (
	"fmt"
	"strconv"
	"strings"
)

const unidSize = 16

// UNID is the universal note id: the database file's creation time and the
// note's creation time.
type UNID struct {
	File TimeDate
	Note TimeDate
}

// String renders the 32 hex digit form used by the store.
func (u UNID) String() string {
	return fmt.Sprintf("%08X%08X%08X%08X",
		u.File.Innards[1], u.File.Innards[0],
		u.Note.Innards[1], u.Note.Innards[0],
	)
}

func (u UNID) IsZero() bool {
	return u == UNID{}
}

// ParseUNID parses the 32 hex digit form.
func ParseUNID(s string) (UNID, error) {
	s = strings.TrimSpace(s)
	if len(s) != 32 {
		return UNID{}, fmt.Errorf("invalid unid %q: want 32 hex digits", s)
	}
	var words [4]uint32
	for i := range words {
		w, err := strconv.ParseUint(s[i*8:(i+1)*8], 16, 32)
		if err != nil {
			return UNID{}, fmt.Errorf("invalid unid %q: %w", s, err)
		}
		words[i] = uint32(w)
	}
	return UNID{
		File: TimeDate{Innards: [2]uint32{words[1], words[0]}},
		Note: TimeDate{Innards: [2]uint32{words[3], words[2]}},
	}, nil
}

func readUNID(r *bufferReader) (UNID, error) {
	var (
		u   UNID
		err error
	)
	u.File, err = r.timeDate("unid file")
	if err != nil {
		return UNID{}, err
	}
	u.Note, err = r.timeDate("unid note")
	if err != nil {
		return UNID{}, err
	}
	return u, nil
}

// Marshal writes the 16 byte wire form into buf at offset i.
func (u UNID) Marshal(buf []byte, i int) {
	putTimeDate(buf, u.File, i)
	putTimeDate(buf, u.Note, i+timeDateSize)
}
