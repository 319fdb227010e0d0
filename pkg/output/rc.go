package output

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/traitforge/pkg/errors"
)

// RC holds the parameters of a run, persisted as <output>/.generatorrc.
//
// The file is TOML: the seed is a quoted decimal string and booleans are
// lowercase. Config is optional when reading. Unknown keys are rejected.
type RC struct {
	Config          string `toml:"config,omitempty"`
	Amount          int    `toml:"amount"`
	Seed            string `toml:"seed"`
	StartAt         int    `toml:"start_at"`
	Output          string `toml:"output"`
	AllowDuplicates bool   `toml:"allow_duplicates"`
	NoPad           bool   `toml:"no_pad"`
}

// WriteRC writes rc to <dir>/.generatorrc.
func WriteRC(dir string, rc RC) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", RCFile)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
	}
	path := filepath.Join(dir, RCFile)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// ReadRC loads a .generatorrc file. path may name the file itself or the
// output directory containing it.
func ReadRC(path string) (RC, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, RCFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return RC{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
		}
		return RC{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	var rc RC
	md, err := toml.Decode(string(data), &rc)
	if err != nil {
		return RC{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return RC{}, errors.New(errors.ErrCodeInvalidInput, "%s: unknown key %q", path, undecoded[0].String())
	}
	if rc.Seed == "" {
		return RC{}, errors.New(errors.ErrCodeInvalidInput, "%s: missing seed", path)
	}
	return rc, nil
}
