package entity

import "errors"

var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrOrderClosed            = errors.New("order is closed")
	ErrUnknownOrderStatus     = errors.New("unknown order status")
)

type OrderState interface {
	Name() string
	Close(o *Order) error
	AddItem(o *Order) error
}

func stateFromName(name string) (OrderState, error) {
	switch name {
	case StatusOpen:
		return &OpenState{}, nil
	case StatusClosed:
		return &ClosedState{}, nil
	default:
		return nil, ErrUnknownOrderStatus
	}
}
