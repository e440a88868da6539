package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Event logs are streams of CBOR maps with integer keys (see the Event
// struct tags). Encoding is canonical so an event always produces the
// same bytes, and timestamps are written as RFC 3339 text to keep the
// nanosecond precision a state transition during a fast move needs.
var (
	eventEncMode cbor.EncMode
	eventDecMode cbor.DecMode
)

func init() {
	var err error
	eventEncMode, err = cbor.EncOptions{
		Sort: cbor.SortCanonical,
		Time: cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("event CBOR encoder mode: %v", err))
	}

	// Reading is deliberately lax: a log written by a newer version may
	// carry keys this version does not know, and a duplicate key should
	// not make the rest of the stream unreadable.
	eventDecMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("event CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes a single event to its CBOR bytes.
func EncodeEvent(event Event) ([]byte, error) {
	return eventEncMode.Marshal(event)
}

// DecodeEvent decodes a single event from CBOR bytes.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := eventDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns an encoder that appends events to w as a stream.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return eventEncMode.NewEncoder(w)
}

// NewDecoder returns a decoder that reads an event stream from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return eventDecMode.NewDecoder(r)
}
