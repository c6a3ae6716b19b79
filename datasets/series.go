package datasets

import (
	"fmt"

	"github.com/Noofbiz/seqvis"
	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// SeriesArray is a dense (sample, step, channel) array of float64 values
// stored row-major in a single flat buffer.
type SeriesArray struct {
	data  []float64
	shape [3]int
}

// NewSeriesArray wraps a row-major flat buffer. The buffer is not copied.
func NewSeriesArray(data []float64, samples, steps, channels int) (*SeriesArray, error) {
	if samples < 0 || steps < 0 || channels < 0 {
		return nil, fmt.Errorf("%w: negative dimension in (%d, %d, %d)",
			seqvis.ErrInvalidInput, samples, steps, channels)
	}
	if want := samples * steps * channels; len(data) != want {
		return nil, fmt.Errorf("%w: data length %d does not match shape (%d, %d, %d)",
			seqvis.ErrInvalidInput, len(data), samples, steps, channels)
	}
	return &SeriesArray{
		data:  data,
		shape: [3]int{samples, steps, channels},
	}, nil
}

// Shape returns (samples, steps, channels).
func (a *SeriesArray) Shape() [3]int { return a.shape }

// Samples is the batch dimension.
func (a *SeriesArray) Samples() int { return a.shape[0] }

// Steps is the time dimension.
func (a *SeriesArray) Steps() int { return a.shape[1] }

// Channels is the feature dimension.
func (a *SeriesArray) Channels() int { return a.shape[2] }

func (a *SeriesArray) offset(sample, step, channel int) int {
	return (sample*a.shape[1]+step)*a.shape[2] + channel
}

// At returns a single element. It panics on out-of-range indices, like a
// slice access would.
func (a *SeriesArray) At(sample, step, channel int) float64 {
	return a.data[a.offset(sample, step, channel)]
}

// Series copies out the time series of one channel of one sample.
func (a *SeriesArray) Series(sample, channel int) ([]float64, error) {
	if sample < 0 || sample >= a.shape[0] {
		return nil, fmt.Errorf("%w: sample %d out of range [0, %d)", seqvis.ErrInvalidInput, sample, a.shape[0])
	}
	if channel < 0 || channel >= a.shape[2] {
		return nil, fmt.Errorf("%w: channel %d out of range [0, %d)", seqvis.ErrInvalidInput, channel, a.shape[2])
	}
	out := make([]float64, a.shape[1])
	for t := range out {
		out[t] = a.data[a.offset(sample, t, channel)]
	}
	return out, nil
}

// Tensor converts the array to a gomlx tensor of shape (samples, steps,
// channels), so the arrays can be fed back into a gomlx model.
func (a *SeriesArray) Tensor() *tensors.Tensor {
	return tensors.FromFlatDataAndDimensions(a.data, a.shape[0], a.shape[1], a.shape[2])
}
