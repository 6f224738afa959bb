// Package scene writes and reads the nested key/value block format used to
// describe a visibility scene. Every field is a string; vectors are written
// as space-separated floats.
//
//	fow
//	{
//		world
//		{
//			"mins"	"0 0 0"
//		}
//	}
package scene

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Writer receives a scene description.
type Writer interface {
	BeginBlock(name string)
	SetString(key, value string)
	EndBlock()
}

// KVWriter writes the block format to an io.Writer. The first write error
// is kept and reported by Err; later calls are no-ops.
type KVWriter struct {
	w     io.Writer
	depth int
	err   error
}

// NewKVWriter returns a KVWriter writing to w.
func NewKVWriter(w io.Writer) *KVWriter {
	return &KVWriter{w: w}
}

func (k *KVWriter) printf(format string, args ...interface{}) {
	if k.err != nil {
		return
	}
	_, k.err = fmt.Fprintf(k.w, strings.Repeat("\t", k.depth)+format, args...)
}

// BeginBlock opens a named block.
func (k *KVWriter) BeginBlock(name string) {
	k.printf("%s\n", name)
	k.printf("{\n")
	k.depth++
}

// SetString writes one field of the current block.
func (k *KVWriter) SetString(key, value string) {
	k.printf("%s\t%s\n", quote(key), quote(value))
}

// EndBlock closes the current block.
func (k *KVWriter) EndBlock() {
	if k.depth == 0 {
		if k.err == nil {
			k.err = fmt.Errorf("scene: EndBlock without BeginBlock")
		}
		return
	}
	k.depth--
	k.printf("}\n")
}

// Err returns the first error encountered, including unbalanced blocks once
// writing is finished.
func (k *KVWriter) Err() error {
	if k.err == nil && k.depth != 0 {
		return fmt.Errorf("scene: %d unclosed blocks", k.depth)
	}
	return k.err
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// FormatVec formats v as "x y z".
func FormatVec(v r3.Vec) string {
	return FormatFloat(v.X) + " " + FormatFloat(v.Y) + " " + FormatFloat(v.Z)
}

// FormatFloat formats f with the fewest digits that parse back exactly.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseVec parses a vector written by FormatVec.
func ParseVec(s string) (r3.Vec, error) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return r3.Vec{}, fmt.Errorf("scene: vector %q: want 3 components, got %d", s, len(parts))
	}
	var c [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("scene: vector %q: %w", s, err)
		}
		c[i] = f
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}
