package genetic_paths

import (
	"bytes"
	"compress/zlib"
	bin "encoding/binary"
	"fmt"
	"io"

	"cogentcore.org/core/math32"
)

// History blob layout, little endian, zlib compressed as a whole:
//
//	u32 generationCount
//	u32 populationCount
//	per generation:
//	    per path: u32 pointCount, pointCount * f32x3, u8x4 color, u8 isFittest
//	    GenerationStats (9 * 4 bytes, field order)
//
// Every generation holds exactly populationCount paths.

const (
	pointSize   = 12
	minPathSize = 4 + 4 + 1
	statsSize   = 9 * 4
	headerSize  = 8
	fittestFlag = byte(1)
	regularFlag = byte(0)

	// maxHistoryBytes caps the decompressed size of a history blob.
	maxHistoryBytes = 1 << 30
)

var order = bin.LittleEndian

func EncodeHistory(records []*GenerationRecord) ([]byte, error) {
	populationCount := 0
	if len(records) > 0 {
		populationCount = len(records[0].Paths)
	}

	raw := bytes.NewBuffer(make([]byte, 0, headerSize+len(records)*(statsSize+populationCount*minPathSize)))
	write := func(v any) {
		// bytes.Buffer writes cannot fail
		_ = bin.Write(raw, order, v)
	}

	write(uint32(len(records)))
	write(uint32(populationCount))
	for i, record := range records {
		if len(record.Paths) != populationCount {
			return nil, fmt.Errorf("generation %d has %d paths, expected %d: %w",
				i, len(record.Paths), populationCount, ErrSerializationMismatch)
		}
		for _, path := range record.Paths {
			write(uint32(len(path.Points)))
			write(path.Points)
			write(path.Color)
			if path.IsFittest {
				write(fittestFlag)
			} else {
				write(regularFlag)
			}
		}
		write(record.Stats)
	}

	var out bytes.Buffer
	zw := zlib.NewWriter(&out)
	if _, err := zw.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("compressing history: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compressing history: %w", err)
	}
	return out.Bytes(), nil
}

// DecodeHistory parses a blob written by EncodeHistory. A corrupt or
// truncated stream, declared counts that do not fit the payload, an unknown
// fittest flag and trailing bytes are all reported as
// ErrSerializationMismatch.
func DecodeHistory(blob []byte) ([]*GenerationRecord, error) {
	zr, err := zlib.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("opening history blob: %v: %w", err, ErrSerializationMismatch)
	}
	raw, err := io.ReadAll(io.LimitReader(zr, maxHistoryBytes+1))
	zr.Close()
	if err != nil {
		return nil, fmt.Errorf("decompressing history blob: %v: %w", err, ErrSerializationMismatch)
	}
	if len(raw) > maxHistoryBytes {
		return nil, fmt.Errorf("history blob inflates past %d bytes: %w", maxHistoryBytes, ErrSerializationMismatch)
	}

	d := &decoder{r: bytes.NewReader(raw)}
	generationCount := int(d.u32())
	populationCount := int(d.u32())
	if d.err != nil {
		return nil, d.mismatch("header")
	}
	// Each count is bounded on its own so the product below cannot overflow.
	remaining := d.r.Len()
	if generationCount > remaining/statsSize || populationCount > remaining/minPathSize ||
		generationCount*(statsSize+populationCount*minPathSize) > remaining {
		return nil, fmt.Errorf("%d generations of %d paths cannot fit in %d bytes: %w",
			generationCount, populationCount, d.r.Len(), ErrSerializationMismatch)
	}

	records := make([]*GenerationRecord, 0, generationCount)
	for g := 0; g < generationCount; g++ {
		record := &GenerationRecord{Paths: make([]PathSnapshot, populationCount)}
		for p := 0; p < populationCount; p++ {
			pointCount := int(d.u32())
			if d.err != nil || pointCount > d.r.Len()/pointSize || pointCount*pointSize+5 > d.r.Len() {
				return nil, d.mismatch(fmt.Sprintf("generation %d path %d", g, p))
			}
			snap := PathSnapshot{Points: make([]math32.Vector3, pointCount)}
			d.read(snap.Points)
			d.read(&snap.Color)
			var flag byte
			d.read(&flag)
			if d.err == nil && flag != fittestFlag && flag != regularFlag {
				return nil, fmt.Errorf("generation %d path %d has fittest flag %d: %w",
					g, p, flag, ErrSerializationMismatch)
			}
			snap.IsFittest = flag == fittestFlag
			record.Paths[p] = snap
		}
		d.read(&record.Stats)
		if d.err != nil {
			return nil, d.mismatch(fmt.Sprintf("generation %d", g))
		}
		record.Generation = record.Stats.GenerationNumber
		records = append(records, record)
	}
	if d.r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after %d generations: %w",
			d.r.Len(), generationCount, ErrSerializationMismatch)
	}
	return records, nil
}

type decoder struct {
	r   *bytes.Reader
	err error
}

func (d *decoder) read(v any) {
	if d.err != nil {
		return
	}
	d.err = bin.Read(d.r, order, v)
}

func (d *decoder) u32() uint32 {
	var v uint32
	d.read(&v)
	return v
}

func (d *decoder) mismatch(where string) error {
	if d.err != nil {
		return fmt.Errorf("truncated %s: %v: %w", where, d.err, ErrSerializationMismatch)
	}
	return fmt.Errorf("declared size of %s overruns the blob: %w", where, ErrSerializationMismatch)
}
