package vm

import (
	"fmt"

	"github.com/FocuswithJustin/sqlcontext/core/udf"
)

// MemFlags records the type of the value held in a Mem.
type MemFlags uint8

const (
	MemUndefined MemFlags = 0x00
	MemNull      MemFlags = 0x01
	MemStr       MemFlags = 0x02
	MemInt       MemFlags = 0x04
	MemReal      MemFlags = 0x08
	MemBlob      MemFlags = 0x10

	memTypeMask = MemNull | MemStr | MemInt | MemReal | MemBlob
)

// Mem is a register cell. Only the field selected by flags is meaningful.
type Mem struct {
	i     int64
	r     float64
	z     []byte
	flags MemFlags
}

// NewMem returns an undefined cell. Reading it yields NULL.
func NewMem() *Mem {
	return &Mem{}
}

func NewMemNull() *Mem {
	return &Mem{flags: MemNull}
}

func NewMemInt(v int64) *Mem {
	return &Mem{flags: MemInt, i: v}
}

func NewMemReal(v float64) *Mem {
	return &Mem{flags: MemReal, r: v}
}

func NewMemStr(v string) *Mem {
	return &Mem{flags: MemStr, z: []byte(v)}
}

// NewMemBlob stores val without copying it.
func NewMemBlob(val []byte) *Mem {
	if val == nil {
		val = []byte{}
	}
	return &Mem{flags: MemBlob, z: val}
}

// NewMemValue stores a udf.Value in a fresh cell.
func NewMemValue(v udf.Value) *Mem {
	m := NewMem()
	m.SetValue(v)
	return m
}

// Flags returns the type flags.
func (m *Mem) Flags() MemFlags {
	return m.flags
}

func (m *Mem) IsNull() bool {
	return m.flags&memTypeMask == 0 || m.flags&MemNull != 0
}

func (m *Mem) SetNull() {
	m.z = nil
	m.flags = MemNull
}

func (m *Mem) SetInt(v int64) {
	m.z = nil
	m.flags = MemInt
	m.i = v
}

func (m *Mem) SetReal(v float64) {
	m.z = nil
	m.flags = MemReal
	m.r = v
}

// SetStr copies v into the cell.
func (m *Mem) SetStr(v string) {
	m.flags = MemStr
	m.z = []byte(v)
}

// SetBlob copies v into the cell.
func (m *Mem) SetBlob(v []byte) {
	m.flags = MemBlob
	m.z = make([]byte, len(v))
	copy(m.z, v)
}

// SetValue stores v with the setter matching its kind.
func (m *Mem) SetValue(v udf.Value) {
	switch v.Kind() {
	case udf.KindInteger:
		m.SetInt(v.Int64())
	case udf.KindReal:
		m.SetReal(v.Float64())
	case udf.KindText:
		m.SetStr(v.Text())
	case udf.KindBlob:
		m.SetBlob(v.Blob())
	default:
		m.SetNull()
	}
}

// Copy makes a deep copy of src into m.
func (m *Mem) Copy(src *Mem) {
	m.flags = src.flags
	m.i = src.i
	m.r = src.r
	if src.z != nil {
		m.z = make([]byte, len(src.z))
		copy(m.z, src.z)
	} else {
		m.z = nil
	}
}

// Kind reports the storage class of the cell.
func (m *Mem) Kind() udf.Kind {
	switch {
	case m.flags&MemInt != 0:
		return udf.KindInteger
	case m.flags&MemReal != 0:
		return udf.KindReal
	case m.flags&MemStr != 0:
		return udf.KindText
	case m.flags&MemBlob != 0:
		return udf.KindBlob
	default:
		return udf.KindNull
	}
}

// Value returns an immutable copy of the cell's contents.
func (m *Mem) Value() udf.Value {
	switch m.Kind() {
	case udf.KindInteger:
		return udf.Integer(m.i)
	case udf.KindReal:
		return udf.Real(m.r)
	case udf.KindText:
		return udf.Text(string(m.z))
	case udf.KindBlob:
		return udf.Blob(m.z)
	default:
		return udf.Null()
	}
}

// Int64, Float64 and Text convert the way the engine's value accessors do.

func (m *Mem) Int64() int64 {
	if m.flags&MemInt != 0 {
		return m.i
	}
	return m.Value().Int64()
}

func (m *Mem) Float64() float64 {
	if m.flags&MemReal != 0 {
		return m.r
	}
	return m.Value().Float64()
}

func (m *Mem) Text() string {
	if m.flags&MemStr != 0 {
		return string(m.z)
	}
	return m.Value().Text()
}

// Blob returns the cell's own buffer for text and blob cells. It is valid
// until the cell is next written.
func (m *Mem) Blob() []byte {
	if m.flags&(MemStr|MemBlob) != 0 {
		return m.z
	}
	return m.Value().Blob()
}

// String returns a representation of the cell for debugging.
func (m *Mem) String() string {
	switch m.Kind() {
	case udf.KindInteger:
		return fmt.Sprintf("INT(%d)", m.i)
	case udf.KindReal:
		return fmt.Sprintf("REAL(%g)", m.r)
	case udf.KindText:
		return fmt.Sprintf("STR(%q)", string(m.z))
	case udf.KindBlob:
		return fmt.Sprintf("BLOB(%d bytes)", len(m.z))
	default:
		return "NULL"
	}
}
