package gateway

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindNetwork means no usable response arrived: connection failure,
	// timeout, or a body that could not be read.
	KindNetwork Kind = iota + 1
	// KindService means the service answered with a non-2xx status.
	KindService
	// KindMalformed means a 2xx body did not decode into the expected shape.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindService:
		return "service"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

type GatewayError struct {
	Op      string
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	switch e.Kind {
	case KindService:
		return fmt.Sprintf("gateway: %s: service returned %d: %s", e.Op, e.Status, e.Message)
	case KindMalformed:
		return fmt.Sprintf("gateway: %s: malformed response: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("gateway: %s: %v", e.Op, e.Err)
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first GatewayError in err's chain, or 0.
func KindOf(err error) Kind {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return 0
}
