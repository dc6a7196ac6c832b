package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidate(t *testing.T) {
	mac := []byte{0, 0x11, 0x22, 0x33, 0x44, 0x55}

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"identify", Request{MessageID: 1, Operation: OpIdentify}, nil},
		{"zero id", Request{Operation: OpIdentify}, ErrZeroMessageID},
		{"unknown op", Request{MessageID: 1, Operation: 99}, ErrInvalidOperation},
		{"set mac", Request{MessageID: 1, Operation: OpSetMAC, MAC: mac}, nil},
		{"short mac", Request{MessageID: 1, Operation: OpSetMAC, MAC: mac[:4]}, ErrInvalidMAC},
		{"bad rx mode", Request{MessageID: 1, Operation: OpSetRxMode, RxMode: 9}, ErrInvalidRxMode},
		{"bad multicast", Request{MessageID: 1, Operation: OpSetRxMode, RxMode: RxModeList,
			Multicast: [][]byte{{1, 2}}}, ErrInvalidMAC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterRequestEncoding(t *testing.T) {
	req := &Request{MessageID: 7, Operation: OpWriteRegister, Address: 0x00010022, Value: 0x33221100}

	data, err := EncodeRequest(req)
	require.NoError(t, err)

	got, err := DecodeRequest(data)
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestRxModeRequestEncoding(t *testing.T) {
	req := &Request{
		MessageID: 3,
		Operation: OpSetRxMode,
		RxMode:    RxModeList,
		Multicast: [][]byte{
			{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0x01},
			{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0x02},
		},
	}

	data, err := EncodeRequest(req)
	require.NoError(t, err)

	got, err := DecodeRequest(data)
	require.NoError(t, err)
	assert.Equal(t, req.Multicast, got.Multicast)
	assert.Equal(t, RxModeList, got.RxMode)
}

func TestEncodeRequestRejectsInvalid(t *testing.T) {
	_, err := EncodeRequest(&Request{Operation: OpOpen})
	assert.ErrorIs(t, err, ErrZeroMessageID)
}

func TestDecodeRequestGarbage(t *testing.T) {
	_, err := DecodeRequest([]byte{0xff})
	assert.Error(t, err)

	// A well-formed map with messageId 0 fails validation.
	data, err := Marshal(map[int]any{1: 0, 2: 1})
	require.NoError(t, err)
	_, err = DecodeRequest(data)
	assert.ErrorIs(t, err, ErrZeroMessageID)
}

func TestResponseErr(t *testing.T) {
	ok := &Response{MessageID: 1, Status: StatusSuccess, Value: 0x0C}
	assert.NoError(t, ok.Err())

	failed := &Response{MessageID: 1, Status: StatusTornState, Text: "restore low word: bus fault"}
	err := failed.Err()
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StatusTornState, se.Status)
	assert.Equal(t, "TORN_STATE: restore low word: bus fault", err.Error())

	data, err := EncodeResponse(failed)
	require.NoError(t, err)
	got, err := DecodeResponse(data)
	require.NoError(t, err)
	assert.Equal(t, failed, got)
}

func TestOperationStrings(t *testing.T) {
	for op := OpIdentify; op <= OpSetRxMode; op++ {
		if op.String() == "UNKNOWN" {
			t.Errorf("operation %d has no name", op)
		}
		if !op.IsValid() {
			t.Errorf("operation %d should be valid", op)
		}
	}
	if Operation(0).IsValid() {
		t.Error("operation 0 should be invalid")
	}
	assert.True(t, OpReadRegister.IsRegisterOp())
	assert.False(t, OpDebugRead.IsRegisterOp())
}

func TestStatusStrings(t *testing.T) {
	for s := StatusSuccess; s <= StatusInternal; s++ {
		if s.String() == "UNKNOWN" {
			t.Errorf("status %d has no name", s)
		}
	}
	assert.Equal(t, "UNKNOWN", Status(200).String())
}

func TestDecodeRequestRejectsOversizedList(t *testing.T) {
	req := &Request{MessageID: 1, Operation: OpSetRxMode, RxMode: RxModeList}
	for i := 0; i <= MaxMulticastEntries; i++ {
		req.Multicast = append(req.Multicast, []byte{0x01, 0, 0x5e, 0, byte(i >> 8), byte(i)})
	}
	data, err := Marshal(req)
	require.NoError(t, err)

	_, err = DecodeRequest(data)
	assert.Error(t, err)

	req.Multicast = req.Multicast[:MaxMulticastEntries]
	data, err = Marshal(req)
	require.NoError(t, err)
	_, err = DecodeRequest(data)
	assert.NoError(t, err)
}
