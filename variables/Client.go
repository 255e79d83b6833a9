package variables

import (
	"fmt"

	"github.com/samuelfneumann/daxqn/network"
	"gorgonia.org/tensor"
)

type fetch struct {
	vars []*tensor.Dense
	err  error
}

// Client keeps the weights of an actor's network up to date with a
// Source.
//
// Calls to Update(false) are counted. Once updatePeriod calls have been
// made and no fetch is in flight, the variables are fetched from the
// Source in a new goroutine. The first Update after that fetch completes
// copies the fetched variables into the network. The network is only
// written from the goroutine calling Update.
type Client struct {
	source       Source
	net          network.NeuralNet
	updatePeriod int

	callCounter int
	inFlight    chan fetch
}

// NewClient returns a new Client which updates net from source
func NewClient(source Source, net network.NeuralNet,
	updatePeriod int) (*Client, error) {
	if updatePeriod < 1 {
		return nil, fmt.Errorf("newclient: update period must be positive "+
			"\n\thave(%v)", updatePeriod)
	}
	return &Client{source: source, net: net, updatePeriod: updatePeriod}, nil
}

// Update updates the network. If wait is true, the variables are
// fetched and applied before returning. An error of a background fetch
// is returned by the call which collects it.
func (c *Client) Update(wait bool) error {
	if wait {
		c.drain()
		c.callCounter = 0
		return c.UpdateAndWait()
	}

	if c.callCounter < c.updatePeriod {
		c.callCounter++
	}

	if c.callCounter >= c.updatePeriod && c.inFlight == nil {
		c.start()
		c.callCounter = 0
	}

	if c.inFlight == nil {
		return nil
	}
	select {
	case f := <-c.inFlight:
		c.inFlight = nil
		return c.apply(f)
	default:
		return nil
	}
}

// UpdateAndWait fetches the variables and applies them to the network
func (c *Client) UpdateAndWait() error {
	vars, err := c.source.Variables()
	return c.apply(fetch{vars: vars, err: err})
}

// Close waits for any fetch in flight and discards it
func (c *Client) Close() {
	c.drain()
}

// Pending returns whether a fetch is in flight
func (c *Client) Pending() bool {
	return c.inFlight != nil
}

func (c *Client) start() {
	done := make(chan fetch, 1)
	go func() {
		vars, err := c.source.Variables()
		done <- fetch{vars: vars, err: err}
	}()
	c.inFlight = done
}

func (c *Client) drain() {
	if c.inFlight != nil {
		<-c.inFlight
		c.inFlight = nil
	}
}

func (c *Client) apply(f fetch) error {
	if f.err != nil {
		return fmt.Errorf("update: could not fetch variables: %v", f.err)
	}
	if err := Assign(c.net, f.vars); err != nil {
		return fmt.Errorf("update: %v", err)
	}
	return nil
}
