package vectorindex

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"hostelhaven/internal/domain"
)

// Vector blob layout, little-endian: magic, format version, model
// identifier (length-prefixed), dimension, vector count, then raw float32
// data. The model identifier versions the blob: vectors from different
// embedding models must never be mixed.
var blobMagic = [4]byte{'H', 'H', 'I', 'X'}

const blobVersion uint16 = 1

// Mapping is the slot-to-listing-ID artifact. IDs[i] is the listing whose
// canonical text produced the index's slot i vector.
type Mapping struct {
	Model string   `json:"model"`
	IDs   []string `json:"ids"`
}

// WriteFile persists the vector blob via write-to-temp and rename, so a
// crash mid-write never leaves a truncated artifact at the final path.
func (ix *Index) WriteFile(path string) error {
	tmp := path + ".tmp"
	if err := ix.writeTo(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("vectorindex: replace %s: %w", path, err)
	}
	return nil
}

func (ix *Index) writeTo(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vectorindex: create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	werr := func() error {
		if _, err := w.Write(blobMagic[:]); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, blobVersion); err != nil {
			return err
		}
		model := []byte(ix.model)
		if err := binary.Write(w, binary.LittleEndian, uint16(len(model))); err != nil {
			return err
		}
		if _, err := w.Write(model); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(ix.dim)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(ix.vectors))); err != nil {
			return err
		}
		buf := make([]byte, 4)
		for _, vec := range ix.vectors {
			for _, v := range vec {
				binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
				if _, err := w.Write(buf); err != nil {
					return err
				}
			}
		}
		return w.Flush()
	}()
	if werr != nil {
		f.Close()
		return fmt.Errorf("vectorindex: write %s: %w", path, werr)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("vectorindex: close %s: %w", path, err)
	}
	return nil
}

// ReadFile loads a vector blob written by WriteFile.
func ReadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("vectorindex: read %s: %w", path, err)
	}
	if magic != blobMagic {
		return nil, fmt.Errorf("vectorindex: %s is not a vector blob", path)
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("vectorindex: read %s: %w", path, err)
	}
	if version != blobVersion {
		return nil, fmt.Errorf("vectorindex: %s has unsupported format version %d", path, version)
	}
	var modelLen uint16
	if err := binary.Read(r, binary.LittleEndian, &modelLen); err != nil {
		return nil, fmt.Errorf("vectorindex: read %s: %w", path, err)
	}
	model := make([]byte, modelLen)
	if _, err := io.ReadFull(r, model); err != nil {
		return nil, fmt.Errorf("vectorindex: read %s: %w", path, err)
	}
	var dim, count uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("vectorindex: read %s: %w", path, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("vectorindex: read %s: %w", path, err)
	}

	ix, err := New(int(dim), string(model))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 4)
	for i := uint32(0); i < count; i++ {
		vec := make([]float32, dim)
		for j := range vec {
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("vectorindex: %s truncated at vector %d: %w", path, i, err)
			}
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf))
		}
		ix.vectors = append(ix.vectors, vec)
	}
	return ix, nil
}

// WriteFile persists the mapping via write-to-temp and rename.
func (m Mapping) WriteFile(path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("vectorindex: marshal mapping: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("vectorindex: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("vectorindex: replace %s: %w", path, err)
	}
	return nil
}

// ReadMapping loads a slot-to-ID mapping written by Mapping.WriteFile.
func ReadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("vectorindex: read %s: %w", path, err)
	}
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return Mapping{}, fmt.Errorf("vectorindex: parse %s: %w", path, err)
	}
	return m, nil
}

// LoadArtifacts loads and cross-checks the artifact pair for serving.
// The blob and mapping must carry the configured model identifier, the blob
// dimension must match the configured one, and slot counts must agree.
// Any violation is ErrIndexUnavailable: a mismatched pair must never serve.
func LoadArtifacts(vectorPath, mappingPath, wantModel string, wantDim int) (*Index, Mapping, error) {
	ix, err := ReadFile(vectorPath)
	if err != nil {
		return nil, Mapping{}, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	m, err := ReadMapping(mappingPath)
	if err != nil {
		return nil, Mapping{}, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	if ix.Model() != wantModel {
		return nil, Mapping{}, fmt.Errorf("%w: blob built with model %q, config wants %q",
			domain.ErrIndexUnavailable, ix.Model(), wantModel)
	}
	if m.Model != wantModel {
		return nil, Mapping{}, fmt.Errorf("%w: mapping built with model %q, config wants %q",
			domain.ErrIndexUnavailable, m.Model, wantModel)
	}
	if ix.Dim() != wantDim {
		return nil, Mapping{}, fmt.Errorf("%w: blob dimension %d, config wants %d",
			domain.ErrIndexUnavailable, ix.Dim(), wantDim)
	}
	if ix.Len() != len(m.IDs) {
		return nil, Mapping{}, fmt.Errorf("%w: blob has %d vectors, mapping has %d ids",
			domain.ErrIndexUnavailable, ix.Len(), len(m.IDs))
	}
	return ix, m, nil
}
