package entity

const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

type OpenState struct{}

func (s *OpenState) Name() string { return StatusOpen }

func (s *OpenState) Close(o *Order) error {
	o.TransitionTo(&ClosedState{})
	return nil
}

func (s *OpenState) AddItem(o *Order) error { return nil }

type ClosedState struct{}

func (s *ClosedState) Name() string { return StatusClosed }

// Close on a closed order keeps it closed; checkout can be repeated.
func (s *ClosedState) Close(o *Order) error { return nil }

func (s *ClosedState) AddItem(o *Order) error { return ErrOrderClosed }
