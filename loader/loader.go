// Package loader bulk-loads (label, vector) datasets from columnar
// Parquet files for HGraph.Add, grounded on the retrieval pack's
// longbow storage engine (internal/storage/parquet.go) adapted to this
// module's flat-vector row shape (SPEC_FULL §11).
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// VectorRow is the Parquet row schema LoadParquet expects: one label and
// one fixed-length vector per row.
type VectorRow struct {
	Label  int64     `parquet:"label"`
	Vector []float32 `parquet:"vector"`
}

// LoadParquet reads every row of path into parallel label/vector slices,
// suitable for a single HGraph.Add call.
func LoadParquet(path string) (labels []int64, vectors [][]float32, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("loader: stat %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, nil, fmt.Errorf("loader: open parquet file %s: %w", path, err)
	}

	pr := parquet.NewGenericReader[VectorRow](pf)
	defer pr.Close()

	n := int(pr.NumRows())
	labels = make([]int64, 0, n)
	vectors = make([][]float32, 0, n)

	buf := make([]VectorRow, 1024)
	for {
		read, rerr := pr.Read(buf)
		for _, row := range buf[:read] {
			labels = append(labels, row.Label)
			vectors = append(vectors, row.Vector)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, nil, fmt.Errorf("loader: read %s: %w", path, rerr)
		}
		if read == 0 {
			break
		}
	}

	return labels, vectors, nil
}

// WriteParquet writes labels/vectors back out in the VectorRow schema, for
// round-tripping test fixtures and export tooling.
func WriteParquet(path string, labels []int64, vectors [][]float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("loader: create %s: %w", path, err)
	}
	defer f.Close()

	pw := parquet.NewGenericWriter[VectorRow](f, parquet.Compression(&parquet.Zstd))
	defer pw.Close()

	rows := make([]VectorRow, len(labels))
	for i := range labels {
		rows[i] = VectorRow{Label: labels[i], Vector: vectors[i]}
	}
	if _, err := pw.Write(rows); err != nil {
		return fmt.Errorf("loader: write %s: %w", path, err)
	}
	return pw.Close()
}
