package trainer

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Weights files are headerless: required-count contiguous little-endian int16
// values, nothing else. The expected count is implied by the events being
// trained, so readers must be told what to expect.

// ReadWeights decodes exactly count weights from r, whose total size must be
// 2*count bytes.
func ReadWeights(r io.Reader, size int64, count int) ([]int16, error) {
	if size != int64(count)*2 {
		return nil, fmt.Errorf("%w: %d bytes, need %d for %d weights",
			ErrWeightsSizeMismatch, size, count*2, count)
	}
	weights := make([]int16, count)
	if err := binary.Read(r, binary.LittleEndian, weights); err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	return weights, nil
}

// WriteWeights encodes the whole vector to w.
func WriteWeights(w io.Writer, weights []int16) error {
	if err := binary.Write(w, binary.LittleEndian, weights); err != nil {
		return fmt.Errorf("write weights: %w", err)
	}
	return nil
}

// ReadWeightsFile loads a weights file, validating its size against count.
func ReadWeightsFile(path string, count int) ([]int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open weights file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat weights file: %w", err)
	}
	weights, err := ReadWeights(f, info.Size(), count)
	if err != nil {
		return nil, fmt.Errorf("weights file %s: %w", path, err)
	}
	return weights, nil
}

// WeightsFileName returns the canonical output name for a weight vector
// persisted at time now: WEIGHTS_<YYYY-MM-DD_HH-MM-SS>.16w<count>.
func WeightsFileName(now time.Time, count int) string {
	return fmt.Sprintf("WEIGHTS_%s.16w%d", now.Format("2006-01-02_15-04-05"), count)
}

// WriteWeightsFile persists the vector via a temp file renamed into place, so
// a crash never leaves a truncated weights file behind.
func WriteWeightsFile(path string, weights []int16) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create weights temp: %w", err)
	}
	if err := WriteWeights(tmp, weights); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close weights temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist weights: %w", err)
	}
	return nil
}
