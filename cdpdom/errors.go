package cdpdom

// Error is a cdpdom error.
type Error string

// Error satisfies the error interface.
func (err Error) Error() string {
	return string(err)
}

// Error values.
const (
	// ErrClosed is the error returned when using a closed Source.
	ErrClosed Error = "source closed"

	// ErrChannelClosed is the error returned when a command is still waiting
	// for its response when the connection goes away.
	ErrChannelClosed Error = "channel closed"

	// ErrUnexpectedHandshakeData is the error returned when the websocket
	// server sends frames before the client has sent any command.
	ErrUnexpectedHandshakeData Error = "unexpected data after websocket handshake"

	// ErrEmptySnapshot is the error returned when decoding a snapshot that
	// holds no node.
	ErrEmptySnapshot Error = "snapshot holds no node"
)
