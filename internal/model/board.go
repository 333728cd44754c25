package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// BoardSize is the number of cells on a board.
const BoardSize = 9

// Symbol is one of the two marks a participant plays as.
type Symbol string

const (
	SymbolX Symbol = "X"
	SymbolO Symbol = "O"
)

// StartingSymbol always opens a game.
const StartingSymbol = SymbolX

// Other returns the opposing symbol.
func (s Symbol) Other() Symbol {
	if s == SymbolX {
		return SymbolO
	}
	return SymbolX
}

// Valid reports whether s is one of the two playable symbols.
func (s Symbol) Valid() bool {
	return s == SymbolX || s == SymbolO
}

// Board is a fixed sequence of 9 cells. An empty string marks a free cell.
// Index layout:
//
//	0 1 2
//	3 4 5
//	6 7 8
type Board [BoardSize]Symbol

// Empty reports whether the cell at position i is unmarked.
func (b Board) Empty(i int) bool {
	return b[i] == ""
}

// Full reports whether every cell is marked.
func (b Board) Full() bool {
	for _, c := range b {
		if c == "" {
			return false
		}
	}
	return true
}

// Encode renders the board as a 9-character string with '-' for empty
// cells, the format stored in game records.
func (b Board) Encode() string {
	var sb strings.Builder
	sb.Grow(BoardSize)
	for _, c := range b {
		if c == "" {
			sb.WriteByte('-')
		} else {
			sb.WriteString(string(c))
		}
	}
	return sb.String()
}

// DecodeBoard parses the 9-character record format produced by Encode.
func DecodeBoard(s string) (Board, error) {
	var b Board
	if len(s) != BoardSize {
		return b, fmt.Errorf("board state must be %d characters, got %d", BoardSize, len(s))
	}
	for i := 0; i < BoardSize; i++ {
		switch s[i] {
		case '-':
		case 'X':
			b[i] = SymbolX
		case 'O':
			b[i] = SymbolO
		default:
			return b, fmt.Errorf("invalid board cell %q", s[i])
		}
	}
	return b, nil
}

// MarshalJSON renders empty cells as nulls, matching the wire format
// clients expect ("X", "O" or null per cell).
func (b Board) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, c := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		if c == "" {
			buf.WriteString("null")
		} else {
			cell, err := json.Marshal(string(c))
			if err != nil {
				return nil, err
			}
			buf.Write(cell)
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the null-for-empty wire format.
func (b *Board) UnmarshalJSON(data []byte) error {
	var cells [BoardSize]*string
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	for i, c := range cells {
		if c == nil {
			b[i] = ""
		} else {
			b[i] = Symbol(*c)
		}
	}
	return nil
}
