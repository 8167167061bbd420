package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nostrtools/simulatr/pkg/nostr/tag"
)

// MarshalJSON writes the filter with the tag value sets promoted to the top
// level of the object under their '#'-prefixed names, as the wire format
// requires. Field order is fixed and tag names are sorted so the output is
// deterministic.
func (f *T) MarshalJSON() (b []byte, err error) {
	buf := new(bytes.Buffer)
	buf.WriteByte('{')
	first := true
	field := func(name string, v interface{}) (err error) {
		var fb []byte
		if fb, err = json.Marshal(v); err != nil {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		fmt.Fprintf(buf, "%q:", name)
		buf.Write(fb)
		return
	}
	if f.IDs != nil {
		if err = field("ids", f.IDs); err != nil {
			return
		}
	}
	if f.Kinds != nil {
		if err = field("kinds", f.Kinds); err != nil {
			return
		}
	}
	if f.Authors != nil {
		if err = field("authors", f.Authors); err != nil {
			return
		}
	}
	for _, name := range f.sortedTagNames() {
		if err = field("#"+name, f.Tags[name]); err != nil {
			return
		}
	}
	if f.Since != nil {
		if err = field("since", f.Since.T().I64()); err != nil {
			return
		}
	}
	if f.Until != nil {
		if err = field("until", f.Until.T().I64()); err != nil {
			return
		}
	}
	if f.Limit != 0 {
		if err = field("limit", f.Limit); err != nil {
			return
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON unpacks a JSON encoded filter, rolling up the '#'-prefixed
// keys into the Tags map.
func (f *T) UnmarshalJSON(b []byte) (err error) {
	if f == nil {
		return fmt.Errorf("cannot unmarshal into nil filter")
	}
	var raw map[string]json.RawMessage
	if err = json.Unmarshal(b, &raw); err != nil {
		return
	}
	for key, val := range raw {
		switch key {
		case "ids":
			err = json.Unmarshal(val, &f.IDs)
		case "kinds":
			err = json.Unmarshal(val, &f.Kinds)
		case "authors":
			err = json.Unmarshal(val, &f.Authors)
		case "since":
			err = json.Unmarshal(val, &f.Since)
		case "until":
			err = json.Unmarshal(val, &f.Until)
		case "limit":
			err = json.Unmarshal(val, &f.Limit)
		default:
			if !strings.HasPrefix(key, "#") || len(key) < 2 {
				// unknown fields are ignored, not errors
				continue
			}
			var values tag.T
			if err = json.Unmarshal(val, &values); err != nil {
				return
			}
			if f.Tags == nil {
				f.Tags = make(TagMap)
			}
			f.Tags[key[1:]] = values
		}
		if err != nil {
			return
		}
	}
	return
}
