package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for storage errors.
var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrClosed        = errors.New("store is closed")
)

func unknownTable(table string) error {
	return fmt.Errorf("%w: %s", ErrUnknownTable, table)
}

func unknownColumn(table, column string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
}
