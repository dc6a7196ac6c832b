package log

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// eventCodec holds the CBOR modes for .rlog files. Timestamps are written
// as RFC 3339 strings with nanoseconds so traces from different hosts sort
// the same way when merged.
type eventCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var codec = mustEventCodec()

func mustEventCodec() eventCodec {
	enc, err := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic("log: cbor encoder mode: " + err.Error())
	}
	dec, err := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic("log: cbor decoder mode: " + err.Error())
	}
	return eventCodec{enc: enc, dec: dec}
}

// EncodeEvent encodes one event as it is stored in an .rlog file.
func EncodeEvent(event Event) ([]byte, error) {
	return codec.enc.Marshal(event)
}

// DecodeEvent decodes one stored event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	err := codec.dec.Unmarshal(data, &event)
	return event, err
}

func newEventEncoder(w io.Writer) *cbor.Encoder { return codec.enc.NewEncoder(w) }
func newEventDecoder(r io.Reader) *cbor.Decoder { return codec.dec.NewDecoder(r) }
