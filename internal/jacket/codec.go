package jacket

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// indexVersion is bumped whenever the encoded layout changes.
const indexVersion = 1

// GobEncode serializes the index as a gzip-compressed gob stream: a
// version number, the id list, then the projection and descriptor
// matrices. The matrices are written manually (dimensions plus backing
// data) because gob cannot see inside mat.Dense.
func (x *Index) GobEncode() ([]byte, error) {
	buffer := new(bytes.Buffer)
	compressor := gzip.NewWriter(buffer)
	encoder := gob.NewEncoder(compressor)

	if err := encoder.Encode(indexVersion); err != nil {
		return nil, fmt.Errorf("encode index version: %w", err)
	}
	if err := encoder.Encode(x.ids); err != nil {
		return nil, fmt.Errorf("encode id list: %w", err)
	}
	if err := encodeMatrix(encoder, x.projection, "projection"); err != nil {
		return nil, err
	}
	if err := encodeMatrix(encoder, x.descriptors, "descriptor"); err != nil {
		return nil, err
	}

	if err := compressor.Close(); err != nil {
		return nil, fmt.Errorf("flush compressor: %w", err)
	}
	return buffer.Bytes(), nil
}

// GobDecode restores an index written by GobEncode, replacing the
// receiver's contents.
func (x *Index) GobDecode(from []byte) error {
	decompressor, err := gzip.NewReader(bytes.NewReader(from))
	if err != nil {
		return fmt.Errorf("open decompressor: %w", err)
	}
	defer decompressor.Close()
	decoder := gob.NewDecoder(decompressor)

	var version int
	if err := decoder.Decode(&version); err != nil {
		return fmt.Errorf("decode index version: %w", err)
	}
	if version != indexVersion {
		return fmt.Errorf("unsupported index version %d", version)
	}

	if err := decoder.Decode(&x.ids); err != nil {
		return fmt.Errorf("decode id list: %w", err)
	}
	if x.projection, err = decodeMatrix(decoder, "projection"); err != nil {
		return err
	}
	if x.descriptors, err = decodeMatrix(decoder, "descriptor"); err != nil {
		return err
	}

	if n := len(x.ids); x.descriptors == nil && n > 0 {
		return fmt.Errorf("index has %d ids but no descriptors", n)
	} else if x.descriptors != nil {
		if _, cols := x.descriptors.Dims(); cols != n {
			return fmt.Errorf("index has %d ids but %d descriptor columns", n, cols)
		}
	}
	return nil
}

func encodeMatrix(encoder *gob.Encoder, m *mat.Dense, what string) error {
	var rows, cols int
	if m != nil {
		rows, cols = m.Dims()
	}
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("encode %s matrix rows: %w", what, err)
	}
	if err := encoder.Encode(cols); err != nil {
		return fmt.Errorf("encode %s matrix columns: %w", what, err)
	}
	if rows == 0 || cols == 0 {
		return nil
	}
	if err := encoder.Encode(m.RawMatrix().Data); err != nil {
		return fmt.Errorf("encode %s matrix data: %w", what, err)
	}
	return nil
}

func decodeMatrix(decoder *gob.Decoder, what string) (*mat.Dense, error) {
	var rows, cols int
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode %s matrix rows: %w", what, err)
	}
	if err := decoder.Decode(&cols); err != nil {
		return nil, fmt.Errorf("decode %s matrix columns: %w", what, err)
	}
	if rows == 0 || cols == 0 {
		return nil, nil
	}

	var data []float64
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode %s matrix data: %w", what, err)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%s matrix has %d values, want %dx%d", what, len(data), rows, cols)
	}
	return mat.NewDense(rows, cols, data), nil
}
