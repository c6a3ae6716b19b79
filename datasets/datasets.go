package datasets

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Noofbiz/seqvis"
)

// This package loads the arrays a sequence-prediction run leaves behind in
// its result directory and presents them as 3-D series, ready to be sliced
// per sample and channel for plotting.
//
// Layout of a result directory:
//
//	true.npy, pred.npy              test variant
//	true_train.npy, pred_train.npy  train variant
//	name_list.txt                   optional, one channel name per line
//
// Both arrays are (sample, time-step, channel). Nothing is cached between
// calls: every Load reads the files again so a directory that is still being
// written by a training job always shows its latest state.

// Variant selects which pair of arrays to load.
type Variant string

const (
	VariantTrain Variant = "train"
	VariantTest  Variant = "test"
)

// ParseVariant validates a user supplied variant tag.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantTrain, VariantTest:
		return v, nil
	default:
		return "", fmt.Errorf("%w: invalid type %q, please use 'train' or 'test'", seqvis.ErrInvalidInput, s)
	}
}

func (v Variant) suffix() string {
	if v == VariantTrain {
		return "_train"
	}
	return ""
}

// TrueFile is the file name of the ground-truth array for v.
func (v Variant) TrueFile() string { return "true" + v.suffix() + ".npy" }

// PredFile is the file name of the predicted array for v.
func (v Variant) PredFile() string { return "pred" + v.suffix() + ".npy" }

// Result is one result directory loaded for one variant.
type Result struct {
	Dir     string
	Variant Variant

	True *SeriesArray
	Pred *SeriesArray

	// Names holds the channel names from name_list.txt, or nil when the
	// directory has no name list.
	Names []string
}

// Load reads the true/pred arrays for the variant and the optional name
// list from dir. Shapes are not compared here; call Validate before slicing.
func Load(dir string, v Variant) (*Result, error) {
	if _, err := ParseVariant(string(v)); err != nil {
		return nil, err
	}

	truth, err := ReadNPY(filepath.Join(dir, v.TrueFile()))
	if err != nil {
		return nil, err
	}
	pred, err := ReadNPY(filepath.Join(dir, v.PredFile()))
	if err != nil {
		return nil, err
	}
	slog.Info("true_array loaded", "shape", truth.Shape())
	slog.Info("pred_array loaded", "shape", pred.Shape())

	names, err := LoadNameList(dir)
	if err != nil {
		return nil, err
	}

	return &Result{
		Dir:     dir,
		Variant: v,
		True:    truth,
		Pred:    pred,
		Names:   names,
	}, nil
}

// Validate checks that the two arrays can be sliced with the same indices.
func (r *Result) Validate() error {
	return ValidateShapes(r.True, r.Pred)
}

// Samples is the batch size shared by both arrays.
func (r *Result) Samples() int { return r.True.Samples() }

// Channels is the channel count shared by both arrays.
func (r *Result) Channels() int { return r.True.Channels() }

// ValidateShapes returns an ErrInvalidInput error unless both arrays have
// identical (sample, step, channel) shapes.
func ValidateShapes(truth, pred *SeriesArray) error {
	if truth == nil || pred == nil {
		return fmt.Errorf("%w: missing array", seqvis.ErrInvalidInput)
	}
	if truth.Shape() != pred.Shape() {
		return fmt.Errorf("%w: shape mismatch: true %v, pred %v",
			seqvis.ErrInvalidInput, truth.Shape(), pred.Shape())
	}
	return nil
}
