package assets

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/traitforge/pkg/errors"
)

// Rename is one file rename performed (or planned) by [Normalize].
type Rename struct {
	From string
	To   string
}

// NormalizeName returns the canonical form of an asset file name.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Normalize renames every file below dir to its [NormalizeName] form.
// With dryRun set nothing is renamed and the planned renames are returned.
//
// A rename that would overwrite an existing file, or collide with another
// planned rename, fails with INVALID_PATH before any file is touched.
func Normalize(dir string, dryRun bool) ([]Rename, error) {
	if err := errors.ValidatePath(dir); err != nil {
		return nil, err
	}

	var plan []Rename
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if normalized := NormalizeName(name); normalized != name {
			plan = append(plan, Rename{From: path, To: filepath.Join(filepath.Dir(path), normalized)})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %s", dir)
	}
	sort.Slice(plan, func(i, j int) bool { return plan[i].From < plan[j].From })

	if err := checkCollisions(plan); err != nil {
		return nil, err
	}
	if dryRun {
		return plan, nil
	}

	for i, r := range plan {
		if err := os.Rename(r.From, r.To); err != nil {
			return plan[:i], errors.Wrap(errors.ErrCodeInternal, err, "rename %s", r.From)
		}
	}
	return plan, nil
}

func checkCollisions(plan []Rename) error {
	targets := make(map[string]string, len(plan))
	for _, r := range plan {
		if prev, ok := targets[r.To]; ok {
			return errors.New(errors.ErrCodeInvalidPath, "%s and %s both normalize to %s", prev, r.From, r.To)
		}
		targets[r.To] = r.From

		// On case-insensitive filesystems the target may be the source itself.
		if fi, err := os.Stat(r.To); err == nil {
			if src, err := os.Stat(r.From); err == nil && os.SameFile(fi, src) {
				continue
			}
			return errors.New(errors.ErrCodeInvalidPath, "renaming %s would overwrite %s", r.From, r.To)
		}
	}
	return nil
}
