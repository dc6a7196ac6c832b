package control

import (
	"context"

	"github.com/t1s-tools/lan865x-go/pkg/device"
	"github.com/t1s-tools/lan865x-go/pkg/hashfilter"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
	"github.com/t1s-tools/lan865x-go/pkg/regio"
	"github.com/t1s-tools/lan865x-go/pkg/wire"
)

// Client drives a remote device over the control channel. It is safe for
// concurrent use; requests are serialized on the channel.
type Client struct {
	ind *regio.Indirect
}

// Dial connects to address and runs the identity check.
func Dial(ctx context.Context, address string, config regio.IndirectConfig) (*Client, error) {
	ind, err := regio.DialIndirect(ctx, address, config)
	if err != nil {
		return nil, err
	}
	return NewClient(ind), nil
}

// NewClient wraps an identity-checked transport.
func NewClient(ind *regio.Indirect) *Client {
	return &Client{ind: ind}
}

// Transport returns the register transport of the client.
func (c *Client) Transport() regio.Transport {
	return c.ind
}

// Identity returns what the device reported when the client connected.
func (c *Client) Identity() regio.Identity {
	return c.ind.Identity()
}

// ReadRegister reads one register.
func (c *Client) ReadRegister(addr reg.Address) (reg.Value, error) {
	return c.ind.ReadRegister(addr)
}

// WriteRegister writes one register.
func (c *Client) WriteRegister(addr reg.Address, v reg.Value) error {
	return c.ind.WriteRegister(addr, v)
}

// DebugRead returns the device's debug status block. When the device
// could not read MAC_NCR the returned text names the failure.
func (c *Client) DebugRead() (string, error) {
	resp, err := c.call(&wire.Request{Operation: wire.OpDebugRead})
	if err != nil {
		return "", err
	}
	return resp.Text, ResponseErr(resp)
}

// DebugWrite sends one "addr [value]" line.
func (c *Client) DebugWrite(line string) error {
	return c.do(&wire.Request{Operation: wire.OpDebugWrite, Line: line})
}

// SetDebugEnabled opens or closes the debug gate.
func (c *Client) SetDebugEnabled(enabled bool) error {
	return c.do(&wire.Request{Operation: wire.OpDebugEnable, Enabled: enabled})
}

// DebugEnabled reports the debug gate.
func (c *Client) DebugEnabled() (bool, error) {
	resp, err := c.call(&wire.Request{Operation: wire.OpDebugState})
	if err != nil {
		return false, err
	}
	return resp.Enabled, ResponseErr(resp)
}

// OpenDevice enables the transmitter and receiver.
func (c *Client) OpenDevice() error {
	return c.do(&wire.Request{Operation: wire.OpOpen})
}

// CloseDevice disables the transmitter and receiver.
func (c *Client) CloseDevice() error {
	return c.do(&wire.Request{Operation: wire.OpClose})
}

// SetMAC reprograms the station address.
func (c *Client) SetMAC(mac hashfilter.HardwareAddr) error {
	return c.do(&wire.Request{Operation: wire.OpSetMAC, MAC: mac[:]})
}

// SetRxMode changes the receive filter and waits for the result.
func (c *Client) SetRxMode(req device.RxRequest) error {
	w := &wire.Request{Operation: wire.OpSetRxMode, RxMode: wire.RxMode(req.Mode)}
	for _, a := range req.Multicast {
		w.Multicast = append(w.Multicast, append([]byte(nil), a[:]...))
	}
	return c.do(w)
}

// Close releases the control channel. The device is left as it is.
func (c *Client) Close() error {
	return c.ind.Close()
}

func (c *Client) call(req *wire.Request) (*wire.Response, error) {
	return c.ind.Call(req)
}

func (c *Client) do(req *wire.Request) error {
	resp, err := c.call(req)
	if err != nil {
		return err
	}
	return ResponseErr(resp)
}
