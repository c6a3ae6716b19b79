package render

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Noofbiz/seqvis"
	"github.com/Noofbiz/seqvis/datasets"
	"github.com/Noofbiz/seqvis/datasets/npytest"
	"github.com/Noofbiz/seqvis/fonts"
	"github.com/Noofbiz/seqvis/sampling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource int

func (f fixedSource) Intn(int) int { return int(f) }

// recordingFonts wraps a registry and remembers the families asked for.
type recordingFonts struct {
	*fonts.Registry
	available map[string]bool
	faces     []string
}

func (r *recordingFonts) Available(family string) bool { return r.available[family] }

func (r *recordingFonts) Face(family string) fonts.Face {
	r.faces = append(r.faces, family)
	return r.Registry.Face(family)
}

var smallResolutions = map[datasets.Variant]Resolution{
	datasets.VariantTest:  {Width: 600, Height: 400},
	datasets.VariantTrain: {Width: 300, Height: 200},
}

func writeArrays(t *testing.T, dir string, v datasets.Variant, shape []int) {
	t.Helper()
	truth := npytest.Ramp(shape[0], shape[1], shape[2])
	pred := make([]float64, len(truth))
	for i, x := range truth {
		pred[i] = x*0.9 + 1
	}
	npytest.Write(t, dir, v.TrueFile(), shape, truth)
	npytest.Write(t, dir, v.PredFile(), shape, pred)
}

func writeNames(t *testing.T, dir string, names string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, datasets.NameListFile), []byte(names), 0o644))
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestOutputFile(t *testing.T) {
	assert.Equal(t, "true_pred_all.png", OutputFile(datasets.VariantTest))
	assert.Equal(t, "true_pred_all_train.png", OutputFile(datasets.VariantTrain))
}

func TestTitles(t *testing.T) {
	got, err := Titles(nil, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"维度 1", "维度 2", "维度 3"}, got)

	got, err = Titles([]string{"温度", "湿度", "extra"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"温度", "湿度"}, got)

	_, err = Titles([]string{"a", "b"}, 3)
	assert.ErrorIs(t, err, seqvis.ErrInvalidInput)
}

func TestVisualizeTestVariantFullResolution(t *testing.T) {
	dir := t.TempDir()
	writeArrays(t, dir, datasets.VariantTest, []int{10, 96, 4})

	d := &Driver{Selector: sampling.NewSelector(fixedSource(3))}
	out, err := d.Visualize(context.Background(), dir, datasets.VariantTest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "true_pred_all.png"), out)

	img := decodePNG(t, out)
	assert.Equal(t, image.Rect(0, 0, 3840, 2160), img.Bounds())

	// Channel 4 sits alone on the second row; the rest of that row stays white.
	r, g, b, _ := img.At(3500, 1800).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})
}

func TestVisualizeTrainVariantWithNames(t *testing.T) {
	dir := t.TempDir()
	writeArrays(t, dir, datasets.VariantTrain, []int{5, 50, 1})
	writeNames(t, dir, "温度\n")

	d := &Driver{Selector: sampling.NewSelector(fixedSource(0))}
	out, err := d.Visualize(context.Background(), dir, datasets.VariantTrain)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "true_pred_all_train.png"), out)
	assert.Equal(t, image.Rect(0, 0, 1920, 1080), decodePNG(t, out).Bounds())
	assert.NoFileExists(t, filepath.Join(dir, "true_pred_all.png"))
}

func TestVisualizeShortNameListWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeArrays(t, dir, datasets.VariantTest, []int{2, 8, 3})
	writeNames(t, dir, "a\nb\n")

	d := &Driver{Selector: sampling.NewSelector(fixedSource(0)), Resolutions: smallResolutions}
	_, err := d.Visualize(context.Background(), dir, datasets.VariantTest)
	assert.ErrorIs(t, err, seqvis.ErrInvalidInput)
	assert.NoFileExists(t, filepath.Join(dir, "true_pred_all.png"))
}

func TestVisualizeFailuresWriteNothing(t *testing.T) {
	cases := []struct {
		name  string
		setup func(t *testing.T, dir string)
		kind  error
	}{
		{
			name: "missing pred",
			setup: func(t *testing.T, dir string) {
				npytest.Write(t, dir, "true.npy", []int{2, 4, 1}, npytest.Ramp(2, 4, 1))
			},
			kind: seqvis.ErrIO,
		},
		{
			name: "malformed array",
			setup: func(t *testing.T, dir string) {
				npytest.Write(t, dir, "true.npy", []int{2, 4, 1}, npytest.Ramp(2, 4, 1))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "pred.npy"), []byte("nope"), 0o644))
			},
			kind: seqvis.ErrDecode,
		},
		{
			name: "shape mismatch",
			setup: func(t *testing.T, dir string) {
				npytest.Write(t, dir, "true.npy", []int{5, 10, 4}, npytest.Ramp(5, 10, 4))
				npytest.Write(t, dir, "pred.npy", []int{5, 10, 3}, npytest.Ramp(5, 10, 3))
			},
			kind: seqvis.ErrInvalidInput,
		},
		{
			name:  "empty batch",
			setup: func(t *testing.T, dir string) { writeArrays(t, dir, datasets.VariantTest, []int{0, 4, 2}) },
			kind:  seqvis.ErrInvalidInput,
		},
		{
			name:  "zero channels",
			setup: func(t *testing.T, dir string) { writeArrays(t, dir, datasets.VariantTest, []int{2, 4, 0}) },
			kind:  seqvis.ErrInvalidInput,
		},
		{
			name:  "zero steps",
			setup: func(t *testing.T, dir string) { writeArrays(t, dir, datasets.VariantTest, []int{2, 0, 2}) },
			kind:  seqvis.ErrInvalidInput,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			tc.setup(t, dir)
			before := dirNames(t, dir)

			d := &Driver{Selector: sampling.NewSelector(fixedSource(0)), Resolutions: smallResolutions}
			_, err := d.Visualize(context.Background(), dir, datasets.VariantTest)
			assert.ErrorIs(t, err, tc.kind)
			assert.Equal(t, before, dirNames(t, dir))
		})
	}
}

func TestVisualizeParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	writeArrays(t, dir, datasets.VariantTest, []int{3, 40, 7})

	render := func(workers int) []byte {
		d := &Driver{
			Selector:    sampling.NewSelector(fixedSource(1)),
			Resolutions: smallResolutions,
			Workers:     workers,
		}
		out, err := d.Visualize(context.Background(), dir, datasets.VariantTest)
		require.NoError(t, err)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		return data
	}
	sequential := render(1)
	parallel := render(4)
	assert.Equal(t, sequential, parallel)
}

func TestVisualizeUsesResolvedFont(t *testing.T) {
	dir := t.TempDir()
	writeArrays(t, dir, datasets.VariantTrain, []int{1, 10, 2})

	src := &recordingFonts{Registry: fonts.NewRegistry(), available: map[string]bool{"SimHei": true}}
	d := &Driver{
		Selector:    sampling.NewSelector(fixedSource(0)),
		Fonts:       src,
		Resolutions: smallResolutions,
	}
	_, err := d.Visualize(context.Background(), dir, datasets.VariantTrain)
	require.NoError(t, err)
	assert.Equal(t, []string{"SimHei"}, src.faces)

	src.faces = nil
	src.available = map[string]bool{}
	_, err = d.Visualize(context.Background(), dir, datasets.VariantTrain)
	require.NoError(t, err)
	assert.Equal(t, []string{fonts.SansSerif}, src.faces)
}

func TestVisualizeOverwritesPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	writeArrays(t, dir, datasets.VariantTrain, []int{2, 10, 2})
	out := filepath.Join(dir, OutputFile(datasets.VariantTrain))
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0o644))

	d := &Driver{Selector: sampling.NewSelector(fixedSource(0)), Resolutions: smallResolutions}
	_, err := d.Visualize(context.Background(), dir, datasets.VariantTrain)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 300, 200), decodePNG(t, out).Bounds())
}

func TestVisualizeCanceled(t *testing.T) {
	dir := t.TempDir()
	writeArrays(t, dir, datasets.VariantTest, []int{2, 10, 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &Driver{Selector: sampling.NewSelector(fixedSource(0)), Resolutions: smallResolutions}
	_, err := d.Visualize(ctx, dir, datasets.VariantTest)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, OutputFile(datasets.VariantTest)))
}

func TestWritePNGMissingDir(t *testing.T) {
	err := WritePNG(filepath.Join(t.TempDir(), "absent", "x.png"), image.NewRGBA(image.Rect(0, 0, 1, 1)))
	assert.ErrorIs(t, err, seqvis.ErrIO)
}
