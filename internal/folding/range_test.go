package folding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_WireNames(t *testing.T) {
	assert.Equal(t, "region", KindRegion.String())
	assert.Equal(t, "comment", KindComment.String())

	k, err := ParseKind("comment")
	require.NoError(t, err)
	assert.Equal(t, KindComment, k)

	_, err = ParseKind("banana")
	assert.Error(t, err)
}

func TestRange_JSONRoundTrip(t *testing.T) {
	in := Range{Start: 3, End: 9, Kind: KindComment}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":3,"end":9,"kind":"comment"}`, string(data))

	var out Range
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
