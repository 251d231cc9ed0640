// Package abi provides the alignment and overflow-checked arithmetic shared by
// the layout calculator and the struct storage arena.
package abi
