package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDDecodesNumbersAndStrings(t *testing.T) {
	var got []Source
	err := json.Unmarshal([]byte(`[{"id":7,"title":"Flu"},{"id":"asthma","title":"Asthma"},{"id":null,"title":"Cold"},{"title":"Gout"}]`), &got)
	require.NoError(t, err)

	require.Len(t, got, 4)
	assert.Equal(t, ID("7"), got[0].ID)
	assert.Equal(t, ID("asthma"), got[1].ID)
	assert.Equal(t, ID(""), got[2].ID)
	assert.Equal(t, "Gout", got[3].Title)
}

func TestIDRejectsObjects(t *testing.T) {
	var s Source
	err := json.Unmarshal([]byte(`{"id":{"x":1},"title":"Flu"}`), &s)
	assert.Error(t, err)
}

func TestResponseWithNullSources(t *testing.T) {
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(`{"response":"Rest well.","sources":null}`), &resp))
	assert.Equal(t, "Rest well.", resp.Response)
	assert.Empty(t, resp.Sources)
}
