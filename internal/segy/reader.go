// Package segy reads 2-D seismic velocity models from SEG-Y files.
package segy

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/banshee-data/meshsize.report/internal/units"
	"github.com/banshee-data/meshsize.report/internal/velmodel"
)

/*
SEG-Y velocity model layout

Velocity models exported by seismic processing packages are SEG-Y files
with one trace per horizontal position and one sample per depth step.
Geometry headers are ignored: the model is taken to be a dense regular
grid with nx = number of traces and nz = samples per trace.

FILE STRUCTURE:
├── Textual header (3200 bytes)  - EBCDIC/ASCII card images [SKIPPED]
├── Binary header  (400 bytes)   - big-endian; the fields used are
│     offset 16: sample interval in microseconds (informational)
│     offset 20: samples per trace (nz)
│     offset 24: sample format code
└── Traces, each:
      ├── Trace header (240 bytes) - offset 114: samples in this trace,
      │     validated against the binary header when non-zero
      └── ns samples in the binary-header format, big-endian

SAMPLE FORMATS SUPPORTED:
  1 - 4-byte IBM floating point
  2 - 4-byte two's complement integer
  3 - 2-byte two's complement integer
  5 - 4-byte IEEE floating point
  8 - 1-byte two's complement integer

Trace samples run from the shallowest depth down; the grid is flipped
vertically on load so that row 0 is the deepest sample, matching the
domain z-vector which ascends from the model bottom to the surface.
*/

// SEG-Y structural constants.
const (
	TextHeaderSize   = 3200 // EBCDIC card-image header, skipped
	BinaryHeaderSize = 400  // big-endian binary header
	TraceHeaderSize  = 240  // per-trace header

	binSampleInterval  = 16 // uint16, microseconds between samples
	binSamplesPerTrace = 20 // uint16, nz
	binFormatCode      = 24 // uint16, sample format

	traceSampleCount = 114 // uint16 in the trace header, 0 = use binary header
)

// Sample format codes from the SEG-Y standard.
const (
	FormatIBMFloat  = 1
	FormatInt32     = 2
	FormatInt16     = 3
	FormatIEEEFloat = 5
	FormatInt8      = 8
)

// FormatError describes a file that could not be parsed as trace-indexed
// seismic data. It is fatal: no partial grid is returned.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "segy: " + e.Reason
}

func formatErrf(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// Read parses the SEG-Y file at path into a velocity grid. sourceUnits
// names the units the file stores wave speeds in (see internal/units);
// samples are converted to m/s on load.
func Read(path, sourceUnits string) (*velmodel.VelocityGrid, error) {
	if !units.IsValid(sourceUnits) {
		return nil, formatErrf("unknown velocity units %q, valid units are %s", sourceUnits, units.GetValidUnitsString())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("segy: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadModel(bufio.NewReader(f), sourceUnits)
}

// ReadModel parses a SEG-Y stream into a velocity grid.
func ReadModel(r io.Reader, sourceUnits string) (*velmodel.VelocityGrid, error) {
	if err := skip(r, TextHeaderSize); err != nil {
		return nil, formatErrf("truncated textual header: %v", err)
	}

	hdr := make([]byte, BinaryHeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, formatErrf("truncated binary header: %v", err)
	}

	ns := int(binary.BigEndian.Uint16(hdr[binSamplesPerTrace:]))
	format := int(binary.BigEndian.Uint16(hdr[binFormatCode:]))
	if ns == 0 {
		return nil, formatErrf("binary header reports zero samples per trace")
	}
	size, err := sampleSize(format)
	if err != nil {
		return nil, err
	}

	traceHdr := make([]byte, TraceHeaderSize)
	data := make([]byte, ns*size)
	var columns [][]float64

	for {
		if _, err := io.ReadFull(r, traceHdr); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, formatErrf("truncated header for trace %d: %v", len(columns), err)
		}
		if tns := int(binary.BigEndian.Uint16(traceHdr[traceSampleCount:])); tns != 0 && tns != ns {
			return nil, formatErrf("trace %d has %d samples, binary header says %d", len(columns), tns, ns)
		}
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, formatErrf("truncated data for trace %d: %v", len(columns), err)
		}

		col := make([]float64, ns)
		for i := 0; i < ns; i++ {
			col[i] = units.ToMPS(decodeSample(format, data[i*size:]), sourceUnits)
		}
		columns = append(columns, col)
	}

	if len(columns) == 0 {
		return nil, formatErrf("file contains no traces")
	}

	// Flip vertically: trace samples are shallowest-first, grid rows are
	// deepest-first.
	nx := len(columns)
	vals := make([]float64, ns*nx)
	for j, col := range columns {
		for i := 0; i < ns; i++ {
			vals[i*nx+j] = col[ns-1-i]
		}
	}

	grid, err := velmodel.New(ns, nx, vals)
	if err != nil {
		return nil, formatErrf("invalid velocity data: %v", err)
	}
	return grid, nil
}

// sampleSize returns the byte width of a sample format code.
func sampleSize(format int) (int, error) {
	switch format {
	case FormatIBMFloat, FormatInt32, FormatIEEEFloat:
		return 4, nil
	case FormatInt16:
		return 2, nil
	case FormatInt8:
		return 1, nil
	default:
		return 0, formatErrf("unsupported sample format code %d", format)
	}
}

// decodeSample reads one big-endian sample of the given format from b.
func decodeSample(format int, b []byte) float64 {
	switch format {
	case FormatIBMFloat:
		return ibmToFloat(binary.BigEndian.Uint32(b))
	case FormatInt32:
		return float64(int32(binary.BigEndian.Uint32(b)))
	case FormatInt16:
		return float64(int16(binary.BigEndian.Uint16(b)))
	case FormatIEEEFloat:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b)))
	case FormatInt8:
		return float64(int8(b[0]))
	default:
		return 0
	}
}

// ibmToFloat converts a 4-byte IBM System/360 hexadecimal float:
// 1 sign bit, 7-bit excess-64 base-16 exponent, 24-bit fraction.
func ibmToFloat(bits uint32) float64 {
	if bits == 0 {
		return 0
	}
	sign := 1.0
	if bits&0x80000000 != 0 {
		sign = -1.0
	}
	exp := int(bits>>24) & 0x7f
	frac := float64(bits&0x00ffffff) / float64(1<<24)
	return sign * frac * math.Pow(16, float64(exp-64))
}

// skip discards exactly n bytes from r.
func skip(r io.Reader, n int64) error {
	_, err := io.CopyN(io.Discard, r, n)
	return err
}
