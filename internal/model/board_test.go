package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardWireFormat(t *testing.T) {
	var b Board
	b[0] = SymbolX
	b[4] = SymbolO

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `["X",null,null,null,"O",null,null,null,null]`, string(raw))

	var decoded Board
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, b, decoded)
}

func TestBoardEncodeDecode(t *testing.T) {
	var b Board
	b[0], b[1], b[2] = SymbolX, SymbolX, SymbolX
	b[4], b[5] = SymbolO, SymbolO

	encoded := b.Encode()
	assert.Equal(t, "XXX-OO---", encoded)

	decoded, err := DecodeBoard(encoded)
	require.NoError(t, err)
	assert.Equal(t, b, decoded)

	_, err = DecodeBoard("XX")
	assert.Error(t, err)
	_, err = DecodeBoard("XXZ-OO---")
	assert.Error(t, err)
}
