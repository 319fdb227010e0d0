package output

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/matzehuels/traitforge/pkg/errors"
	"github.com/matzehuels/traitforge/pkg/genome"
)

// WriteJSON encodes v as indented JSON to w.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return nil
}

// exportJSON writes v to path, creating parent directories.
func exportJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	if err := WriteJSON(f, v); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close %s", path)
	}
	return nil
}

// WriteMetadata writes md to <dir>/metadata/<token_id>.json.
func WriteMetadata(dir string, md genome.Metadata) error {
	return exportJSON(MetadataPath(dir, md.TokenID), md)
}

// WriteAll writes the run-wide <dir>/metadata/all-objects.json.
func WriteAll(dir string, mds []genome.Metadata) error {
	if mds == nil {
		mds = []genome.Metadata{}
	}
	return exportJSON(AllObjectsPath(dir), mds)
}

func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// ReadMetadata decodes a single metadata record from r.
func ReadMetadata(r io.Reader) (genome.Metadata, error) {
	var md genome.Metadata
	if err := decodeJSON(r, &md); err != nil {
		return genome.Metadata{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode metadata")
	}
	return md, nil
}

// ReadAll decodes a list of metadata records from r.
func ReadAll(r io.Reader) ([]genome.Metadata, error) {
	var mds []genome.Metadata
	if err := decodeJSON(r, &mds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode metadata list")
	}
	return mds, nil
}

// LoadAll reads <dir>/metadata/all-objects.json. The records are returned in
// token order.
func LoadAll(dir string) ([]genome.Metadata, error) {
	path := AllObjectsPath(dir)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	mds, err := ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", path)
	}
	sort.Slice(mds, func(i, j int) bool { return mds[i].TokenID < mds[j].TokenID })
	return mds, nil
}
