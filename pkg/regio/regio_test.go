package regio

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t1s-tools/lan865x-go/pkg/log"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
	"github.com/t1s-tools/lan865x-go/pkg/regio/mocks"
	"github.com/t1s-tools/lan865x-go/pkg/wire"
)

var errBus = errors.New("spi timeout")

func TestDirectPassesThrough(t *testing.T) {
	bus := mocks.NewMockTransport(t)
	bus.EXPECT().ReadRegister(reg.MACNetCtl).Return(reg.Value(0x0C), nil).Once()
	bus.EXPECT().WriteRegister(reg.MACNetCfg, reg.Value(0x40)).Return(nil).Once()

	d := NewDirect(bus)
	v, err := d.ReadRegister(reg.MACNetCtl)
	require.NoError(t, err)
	assert.Equal(t, reg.Value(0x0C), v)
	require.NoError(t, d.WriteRegister(reg.MACNetCfg, 0x40))
}

func TestDirectWrapsBusErrors(t *testing.T) {
	bus := mocks.NewMockTransport(t)
	bus.EXPECT().ReadRegister(reg.MACNetCtl).Return(reg.Value(0), errBus).Once()
	bus.EXPECT().WriteRegister(reg.MACHashTop, reg.Value(1)).Return(errBus).Once()

	d := NewDirect(bus)
	_, err := d.ReadRegister(reg.MACNetCtl)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, errBus)
	assert.Contains(t, err.Error(), "0x00010000")

	err = d.WriteRegister(reg.MACHashTop, 1)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, errBus)
}

type captureLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (c *captureLogger) Log(e log.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func TestLoggedRecordsAccesses(t *testing.T) {
	next := mocks.NewMockTransport(t)
	next.EXPECT().ReadRegister(reg.MACNetCtl).Return(reg.Value(0x0C), nil).Once()
	next.EXPECT().WriteRegister(reg.MACSpecAddr1Top, reg.Value(0x5544)).Return(errBus).Once()

	logger := &captureLogger{}
	tr := NewLogged(next, logger, WithSession("s1"), WithDeviceID("lan8651-0"))

	_, _ = tr.ReadRegister(reg.MACNetCtl)
	err := tr.WriteRegister(reg.MACSpecAddr1Top, 0x5544)
	assert.ErrorIs(t, err, errBus)

	require.Len(t, logger.events, 2)
	rd := logger.events[0]
	assert.Equal(t, log.LayerRegister, rd.Layer)
	assert.Equal(t, log.CategoryAccess, rd.Category)
	assert.Equal(t, "s1", rd.SessionID)
	assert.Equal(t, "lan8651-0", rd.DeviceID)
	assert.Equal(t, log.AccessRead, rd.Access.Op)
	assert.Equal(t, uint32(0x00010000), rd.Access.Address)
	assert.Equal(t, uint32(0x0C), rd.Access.Value)
	assert.Empty(t, rd.Access.Error)

	wr := logger.events[1]
	assert.Equal(t, log.AccessWrite, wr.Access.Op)
	assert.Equal(t, "spi timeout", wr.Access.Error)
}

func TestLoggedNilLogger(t *testing.T) {
	next := mocks.NewMockTransport(t)
	assert.Same(t, next, NewLogged(next, nil))
}

// scriptedConn answers requests in memory with a handler.
type scriptedConn struct {
	mu       sync.Mutex
	handler  func(*wire.Request) *wire.Response
	pending  [][]byte
	requests []*wire.Request
	closed   bool
	sendErr  error
	mangleID bool
}

func (c *scriptedConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8651}
}

func (c *scriptedConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	req, err := wire.DecodeRequest(data)
	if err != nil {
		return err
	}
	c.requests = append(c.requests, req)
	resp := c.handler(req)
	resp.MessageID = req.MessageID
	if c.mangleID {
		resp.MessageID++
	}
	out, err := wire.EncodeResponse(resp)
	if err != nil {
		return err
	}
	c.pending = append(c.pending, out)
	return nil
}

func (c *scriptedConn) Receive(time.Duration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return nil, errors.New("timeout")
	}
	out := c.pending[0]
	c.pending = c.pending[1:]
	return out, nil
}

func (c *scriptedConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *scriptedConn) count(op wire.Operation) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, r := range c.requests {
		if r.Operation == op {
			n++
		}
	}
	return n
}

// deviceHandler emulates a device with a register map.
func deviceHandler(driver string, registerOps bool) func(*wire.Request) *wire.Response {
	regs := map[uint32]uint32{0x00010000: 0x0C}
	return func(req *wire.Request) *wire.Response {
		switch req.Operation {
		case wire.OpIdentify:
			return &wire.Response{Driver: driver, Version: "1.0"}
		case wire.OpReadRegister, wire.OpWriteRegister:
			if !registerOps {
				return &wire.Response{Status: wire.StatusUnsupported}
			}
			if req.Address == 0xDEAD {
				return &wire.Response{Status: wire.StatusTransport, Text: "bus fault"}
			}
			if req.Operation == wire.OpWriteRegister {
				regs[req.Address] = req.Value
				return &wire.Response{}
			}
			return &wire.Response{Value: regs[req.Address]}
		}
		return &wire.Response{Status: wire.StatusUnsupported}
	}
}

func TestIndirectIdentityCheckedOnce(t *testing.T) {
	conn := &scriptedConn{handler: deviceHandler("lan865x", true)}
	tr, err := NewIndirect(conn, IndirectConfig{})
	require.NoError(t, err)
	assert.Equal(t, Identity{Driver: "lan865x", Version: "1.0"}, tr.Identity())

	for i := 0; i < 5; i++ {
		v, err := tr.ReadRegister(reg.MACNetCtl)
		require.NoError(t, err)
		assert.Equal(t, reg.Value(0x0C), v)
	}
	require.NoError(t, tr.WriteRegister(reg.MACNetCfg, 0x40))
	v, err := tr.ReadRegister(reg.MACNetCfg)
	require.NoError(t, err)
	assert.Equal(t, reg.Value(0x40), v)

	assert.Equal(t, 1, conn.count(wire.OpIdentify))

	require.NoError(t, tr.Close())
	assert.True(t, conn.closed)
}

func TestIndirectIdentityMismatch(t *testing.T) {
	conn := &scriptedConn{handler: deviceHandler("r8169", true)}
	_, err := NewIndirect(conn, IndirectConfig{})
	assert.ErrorIs(t, err, ErrIdentityMismatch)
	assert.NotErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), `"r8169"`)
	assert.True(t, conn.closed)
	assert.Equal(t, 0, conn.count(wire.OpReadRegister))
}

func TestIndirectIncompatibleVersion(t *testing.T) {
	conn := &scriptedConn{handler: func(req *wire.Request) *wire.Response {
		return &wire.Response{Driver: "lan865x", Version: "2.0"}
	}}
	_, err := NewIndirect(conn, IndirectConfig{})
	assert.ErrorIs(t, err, ErrIdentityMismatch)
	assert.Contains(t, err.Error(), `"2.0"`)
	assert.True(t, conn.closed)
}

func TestIndirectCustomExpectedDriver(t *testing.T) {
	conn := &scriptedConn{handler: deviceHandler("lan867x", true)}
	_, err := NewIndirect(conn, IndirectConfig{ExpectedDriver: "lan867x"})
	assert.NoError(t, err)
}

func TestIndirectUnsupported(t *testing.T) {
	conn := &scriptedConn{handler: deviceHandler("lan865x", false)}
	tr, err := NewIndirect(conn, IndirectConfig{})
	require.NoError(t, err)

	_, err = tr.ReadRegister(reg.MACNetCtl)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.NotErrorIs(t, err, ErrIdentityMismatch)

	err = tr.WriteRegister(reg.MACNetCtl, 0)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestIndirectRemoteTransportFailure(t *testing.T) {
	conn := &scriptedConn{handler: deviceHandler("lan865x", true)}
	tr, err := NewIndirect(conn, IndirectConfig{})
	require.NoError(t, err)

	_, err = tr.ReadRegister(0xDEAD)
	assert.ErrorIs(t, err, ErrTransport)
	var se *wire.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, wire.StatusTransport, se.Status)
}

func TestIndirectChannelFailures(t *testing.T) {
	conn := &scriptedConn{handler: deviceHandler("lan865x", true)}
	tr, err := NewIndirect(conn, IndirectConfig{})
	require.NoError(t, err)

	conn.mangleID = true
	_, err = tr.ReadRegister(reg.MACNetCtl)
	assert.ErrorIs(t, err, ErrTransport)

	conn.mangleID = false
	conn.sendErr = errors.New("broken pipe")
	err = tr.WriteRegister(reg.MACNetCtl, 0)
	assert.ErrorIs(t, err, ErrTransport)

	_, err = NewIndirect(&scriptedConn{sendErr: errors.New("reset")}, IndirectConfig{})
	assert.ErrorIs(t, err, ErrTransport)
}
