package entity

const OrderEntity = "Order"

type Order struct {
	id    string
	state OrderState
}

func NewOrder() *Order {
	return &Order{state: &OpenState{}}
}

// RestoreOrder rebuilds an order loaded from storage.
func RestoreOrder(id, status string) (*Order, error) {
	if id == "" {
		return nil, ErrIDIsRequired
	}
	state, err := stateFromName(status)
	if err != nil {
		return nil, err
	}
	return &Order{id: id, state: state}, nil
}

func (o *Order) Close() error {
	return o.state.Close(o)
}

// EnsureAcceptsItems fails when the order can no longer be shopped into.
func (o *Order) EnsureAcceptsItems() error {
	return o.state.AddItem(o)
}

func (o *Order) TransitionTo(state OrderState) {
	o.state = state
}

func (o *Order) AssignID(id string) {
	o.id = id
}

func (o *Order) ID() string {
	return o.id
}

func (o *Order) StatusName() string {
	return o.state.Name()
}

func (o *Order) IsClosed() bool {
	return o.state.Name() == StatusClosed
}
