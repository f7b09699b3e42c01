package lightwalletd

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/lightsync/internal/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrClientClosed is returned for calls made after Shutdown.
var ErrClientClosed = errors.New("lightwalletd client is shut down")

// Error is a failed call classified into the model error taxonomy.
type Error struct {
	Op      string
	Code    codes.Code
	Message string
	kind    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v: %s (%s)", e.Op, e.kind, e.Message, e.Code)
}

func (e *Error) Unwrap() error {
	return e.kind
}

// classify maps a gRPC failure onto connection, cancellation or server errors.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return &Error{Op: op, Code: codes.DeadlineExceeded, Message: err.Error(), kind: model.ErrConnectionUnavailable}
		}
		return &Error{Op: op, Code: codes.Unknown, Message: err.Error(), kind: model.ErrServer}
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.ResourceExhausted:
		return &Error{Op: op, Code: st.Code(), Message: st.Message(), kind: model.ErrConnectionUnavailable}
	case codes.Canceled:
		return &Error{Op: op, Code: st.Code(), Message: st.Message(), kind: context.Canceled}
	default:
		return &Error{Op: op, Code: st.Code(), Message: st.Message(), kind: model.ErrServer}
	}
}

func malformed(op string, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, model.ErrMalformedResponse, fmt.Sprintf(format, args...))
}
