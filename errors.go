// Package seqvis renders true-vs-predicted time-series comparisons from the
// numeric arrays a sequence-prediction experiment leaves in its result
// directory.
//
// The pipeline lives in the sub-packages:
//
//	datasets  loads true/pred .npy arrays and the optional name_list.txt
//	sampling  picks the sample to visualize
//	layout    tiles the output canvas, one tile per channel
//	fonts     picks a caption font able to draw CJK titles
//	chart     draws one true-vs-pred chart into a tile
//	render    drives the whole thing and writes the PNG
//
// This file holds the error kinds shared by every stage.
package seqvis

import "errors"

// Error kinds. Every error returned by the pipeline wraps exactly one of
// these, so callers can branch with errors.Is while the underlying cause is
// still reachable through the same chain.
var (
	// ErrIO covers missing or unreadable inputs and failed output writes.
	ErrIO = errors.New("io error")
	// ErrDecode covers array files that are not valid .npy encodings.
	ErrDecode = errors.New("decode error")
	// ErrInvalidInput covers empty batches, zero channels, mismatched shapes,
	// short name lists and bad user input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRender covers faults reported by the drawing backend.
	ErrRender = errors.New("render error")
)

// KindOf returns the name of the error kind wrapped by err, or "error" when
// err does not carry one of the kinds above.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIO):
		return "IOError"
	case errors.Is(err, ErrDecode):
		return "DecodeError"
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInputError"
	case errors.Is(err, ErrRender):
		return "RenderError"
	default:
		return "error"
	}
}
