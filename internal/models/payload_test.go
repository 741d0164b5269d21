package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixTimeAcceptsNumberAndString(t *testing.T) {
	var rec PunchRecord

	require.NoError(t, json.Unmarshal([]byte(`{"check_time": 1786866600}`), &rec))
	assert.Equal(t, UnixTime(1786866600), rec.CheckTime)

	require.NoError(t, json.Unmarshal([]byte(`{"check_time": "1786866600000"}`), &rec))
	assert.Equal(t, UnixTime(1786866600000), rec.CheckTime)

	require.NoError(t, json.Unmarshal([]byte(`{"check_time": null}`), &rec))
	assert.Equal(t, UnixTime(0), rec.CheckTime)

	assert.Error(t, json.Unmarshal([]byte(`{"check_time": "soon"}`), &rec))
}
