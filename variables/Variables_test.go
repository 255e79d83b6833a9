package variables

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/samuelfneumann/daxqn/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func newNet(t *testing.T, init G.InitWFn) network.NeuralNet {
	t.Helper()

	net, err := network.NewMLP(2, 1, 2, G.NewGraph(), []int{3},
		[]bool{true, true}, init, []*network.Activation{network.ReLU(),
			network.Identity()})
	require.NoError(t, err)
	return net
}

func weights(net network.NeuralNet) []float64 {
	return net.Learnables()[0].Value().Data().([]float64)
}

// countingSource counts calls to Variables and optionally blocks them
// until released
type countingSource struct {
	Source
	mu      sync.Mutex
	calls   int
	release chan struct{}
	err     error
}

func (c *countingSource) Variables() ([]*tensor.Dense, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if c.release != nil {
		<-c.release
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.Source.Variables()
}

func (c *countingSource) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestUpdateAndWait(t *testing.T) {
	learner := newNet(t, G.Ones())
	actor := newNet(t, G.Zeroes())

	client, err := NewClient(NewNetworkSource(learner, nil), actor, 10)
	require.NoError(t, err)

	require.NoError(t, client.Update(true))
	assert.Equal(t, weights(learner), weights(actor))
}

func TestUpdatePeriod(t *testing.T) {
	learner := newNet(t, G.Ones())
	actor := newNet(t, G.Zeroes())

	source := &countingSource{
		Source:  NewNetworkSource(learner, nil),
		release: make(chan struct{}),
	}
	client, err := NewClient(source, actor, 3)
	require.NoError(t, err)

	// No fetch before the period is reached
	require.NoError(t, client.Update(false))
	require.NoError(t, client.Update(false))
	assert.False(t, client.Pending())

	require.NoError(t, client.Update(false))
	assert.True(t, client.Pending())

	// Further updates do not start a second fetch while one is in flight
	for i := 0; i < 5; i++ {
		require.NoError(t, client.Update(false))
	}
	assert.True(t, client.Pending())
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0}, weights(actor))

	close(source.release)
	require.Eventually(t, func() bool {
		assert.NoError(t, client.Update(false))
		return !client.Pending()
	}, time.Second, time.Millisecond)

	assert.Equal(t, weights(learner), weights(actor))
	assert.LessOrEqual(t, source.Calls(), 2)
}

func TestFetchError(t *testing.T) {
	actor := newNet(t, G.Zeroes())
	source := &countingSource{
		Source: NewNetworkSource(actor, nil),
		err:    errors.New("unavailable"),
	}
	client, err := NewClient(source, actor, 1)
	require.NoError(t, err)

	assert.Error(t, client.Update(true))

	var updateErr error
	require.Eventually(t, func() bool {
		updateErr = client.Update(false)
		return updateErr != nil
	}, time.Second, time.Millisecond)
	assert.Contains(t, updateErr.Error(), "unavailable")
}

func TestAssignMismatch(t *testing.T) {
	net := newNet(t, G.Zeroes())

	assert.Error(t, Assign(net, nil))

	vars, err := Copy(net.Learnables())
	require.NoError(t, err)
	vars[0] = tensor.New(tensor.WithShape(1, 1), tensor.WithBacking(
		[]float64{1}))
	assert.Error(t, Assign(net, vars))
}

func TestCopyIsDeep(t *testing.T) {
	net := newNet(t, G.Ones())
	vars, err := Copy(net.Learnables())
	require.NoError(t, err)

	vars[0].Data().([]float64)[0] = 5
	assert.Equal(t, 1.0, weights(net)[0])
}

func TestInvalidPeriod(t *testing.T) {
	_, err := NewClient(nil, nil, 0)
	assert.Error(t, err)
}
