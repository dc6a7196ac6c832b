package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// MaxMulticastEntries bounds the multicast list of one SetRxMode request.
// The filter has 64 buckets, so longer lists only cost decode time.
const MaxMulticastEntries = 1024

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: cbor encoder mode: %v", err))
	}

	// Unknown keys are ignored so a newer peer can add fields.
	decMode, err = cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyQuiet,
		IndefLength:      cbor.IndefLengthAllowed,
		MaxNestedLevels:  4,
		MaxArrayElements: MaxMulticastEntries,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("wire: cbor decoder mode: %v", err))
	}
}

// Marshal encodes v in the canonical control channel encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes one control channel message into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// EncodeRequest validates req and encodes it.
func EncodeRequest(req *Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return Marshal(req)
}

// DecodeRequest decodes and validates a request.
func DecodeRequest(data []byte) (*Request, error) {
	req := new(Request)
	if err := Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

// EncodeResponse encodes resp. Responses are not validated.
func EncodeResponse(resp *Response) ([]byte, error) {
	return Marshal(resp)
}

// DecodeResponse decodes a response.
func DecodeResponse(data []byte) (*Response, error) {
	resp := new(Response)
	if err := Unmarshal(data, resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}
