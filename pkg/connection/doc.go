// Package connection retries control channel connection attempts.
//
// The diagnostic tool dials a device that may still be starting up or
// restarting. Attempts are spaced with exponential backoff:
//
//  1. Initial delay: 250 milliseconds
//  2. Exponential increase: 500ms, 1s, 2s, 4s
//  3. Maximum delay: 8 seconds
//
// # Jitter
//
// To keep several tools from retrying in lockstep:
//
//	actual_delay = base_delay + random(0, base_delay * 0.25)
//
// # Permanent failures
//
// Some failures will not go away by retrying, for example a device that
// reports the wrong driver. Wrap them with Permanent to stop at once.
package connection
