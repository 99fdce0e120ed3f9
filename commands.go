package mpvipc

import (
	"context"
	"encoding/json"
)

// Command sends an arbitrary command and returns the raw data of a
// successful response. A non-success status is a *RequestError.
//
// https://mpv.io/manual/stable/#list-of-input-commands
func (c *Client) Command(ctx context.Context, name string, args ...any) (json.RawMessage, error) {
	return c.call(ctx, name, args...)
}

// CommandValue is Command with the response data decoded into T.
func CommandValue[T any](ctx context.Context, c *Client, name string, args ...any) (T, error) {
	data, err := c.call(ctx, name, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeValue[T](data)
}

// ClientName returns the name of the client as string.
//
// This is the string "ipc-N" with N being an integer number.
func (c *Client) ClientName(ctx context.Context) (string, error) {
	return CommandValue[string](ctx, c, "client_name")
}

// GetVersion returns the IPC protocol version of the player as an integer.
func (c *Client) GetVersion(ctx context.Context) (int64, error) {
	return CommandValue[int64](ctx, c, "get_version")
}

// GetTimeUs returns the current mpv internal time in microseconds.
//
// This is basically the system time, with an arbitrary offset.
func (c *Client) GetTimeUs(ctx context.Context) (int64, error) {
	return CommandValue[int64](ctx, c, "get_time_us")
}

// GetProperty returns the value of p decoded into T. Use any or
// json.RawMessage to skip typing.
func GetProperty[T any](ctx context.Context, c *Client, p Property) (T, error) {
	return CommandValue[T](ctx, c, "get_property", string(p))
}

// SetProperty sets p to value.
func (c *Client) SetProperty(ctx context.Context, p Property, value any) error {
	_, err := c.call(ctx, "set_property", string(p), value)
	return err
}

// RequestLogMessages enables log-message events at level and above
// ("no" disables them). Consume them with WithEventHandler.
func (c *Client) RequestLogMessages(ctx context.Context, level string) error {
	_, err := c.call(ctx, "request_log_messages", level)
	return err
}
