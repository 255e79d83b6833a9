package solver

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	adam, err := NewDefaultAdam(1e-3, 32)
	require.NoError(t, err)
	vanilla, err := NewVanilla(0.1, 1, 5)
	require.NoError(t, err)
	rms, err := NewDefaultRMSProp(1e-3, 8)
	require.NoError(t, err)

	for _, s := range []*Solver{adam, vanilla, rms} {
		t.Run(string(s.Type), func(t *testing.T) {
			data, err := json.Marshal(s)
			require.NoError(t, err)

			var decoded Solver
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, s.Type, decoded.Type)
			assert.Equal(t, s.Config, decoded.Config)
			assert.NotNil(t, decoded.Solver)
		})
	}
}

func TestInvalidType(t *testing.T) {
	_, err := New("SGD", 0.1, 1, -1)
	assert.Error(t, err)

	var decoded Solver
	err = json.Unmarshal([]byte(`{"Type":"SGD","Config":{}}`), &decoded)
	assert.Error(t, err)
}

func TestRMSPropEta(t *testing.T) {
	_, err := NewRMSProp(1e-3, 1e-8, 0.01, 0.9, 1, -1)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	for _, ty := range []Type{Adam, RMSProp, Vanilla} {
		s, err := New(ty, 1e-3, 4, 10)
		require.NoError(t, err)
		assert.Equal(t, ty, s.Type)
		assert.NotNil(t, s.Solver)
	}

	adam, err := New(Adam, 1e-3, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, adam.Config.(AdamConfig).Clip)
}

func TestInvalidHyperparameters(t *testing.T) {
	_, err := NewDefaultAdam(0, 4)
	assert.Error(t, err)

	_, err = NewAdam(1e-3, 1e-8, 1, 0.999, 4, -1)
	assert.Error(t, err)

	_, err = NewVanilla(0.1, 0, -1)
	assert.Error(t, err)

	var decoded Solver
	err = json.Unmarshal([]byte(`{"Type":"Vanilla","Config":{"StepSize":-1,"Batch":1}}`),
		&decoded)
	assert.Error(t, err)
}
