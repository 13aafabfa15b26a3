package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_AbsentPresentNull(t *testing.T) {
	type payload struct {
		Name  Optional[string] `json:"name"`
		Seats Optional[int]    `json:"seats"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"name": "SP9999"}`), &p))

	assert.True(t, p.Name.Set)
	assert.False(t, p.Name.Null)
	assert.Equal(t, "SP9999", p.Name.Value)

	// seats was absent, so UnmarshalJSON never ran for it.
	assert.False(t, p.Seats.Set)

	p = payload{}
	require.NoError(t, json.Unmarshal([]byte(`{"seats": null}`), &p))
	assert.True(t, p.Seats.Set)
	assert.True(t, p.Seats.Null)
}

func TestOptional_InvalidValue(t *testing.T) {
	var o Optional[int]
	assert.Error(t, json.Unmarshal([]byte(`"many"`), &o))
}

func TestFlightStatus_IsValid(t *testing.T) {
	for _, s := range []FlightStatus{FlightStatusScheduled, FlightStatusDeparted, FlightStatusArrived, FlightStatusDelayed, FlightStatusCancelled} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, FlightStatus("boarding").IsValid())
	assert.False(t, FlightStatus("").IsValid())
}
