// Package control serves a device over the control channel and provides
// the matching client.
//
// The server side decodes wire.Request frames, runs them against a
// device.Device and its debug handler, and answers with a wire.Response
// whose status is derived from the error kind. The client side wraps an
// identity-checked regio.Indirect and turns failure statuses back into the
// package sentinels, so errors.Is works the same on both ends:
//
//	c, err := control.Dial(ctx, "127.0.0.1:8651", regio.IndirectConfig{})
//	if err != nil { ... }
//	defer c.Close()
//	if err := c.SetMAC(mac); errors.Is(err, device.ErrTornState) { ... }
package control
