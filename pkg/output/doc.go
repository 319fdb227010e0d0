// Package output reads and writes the files of a generation run.
//
// # Layout
//
// Everything a run produces lives below one output directory:
//
//	<output>/
//	  .generatorrc              run parameters (TOML), see [RC]
//	  report.json               end-of-run summary, see [Report]
//	  metadata/
//	    <token_id>.json         one [genome.Metadata] per token
//	    all-objects.json        every record of the run, in token order
//	  images/
//	    <token_id>.png          composited image (written by package render)
//
// Metadata records are written with two-space indentation so they diff
// cleanly between runs; the same seed and parameters yield byte-identical
// files.
//
// # Reproducing a Run
//
// [WriteRC] records the parameters needed to reproduce a run, including the
// seed as a quoted decimal string (seeds are 128-bit and do not fit TOML
// integers). [ReadRC] loads them back:
//
//	rc, err := output.ReadRC("output/.generatorrc")
//	seed, err := genome.ParseSeed(rc.Seed)
//
// [genome.Metadata]: github.com/matzehuels/traitforge/pkg/genome.Metadata
package output

import (
	"path/filepath"
	"strconv"
)

// File and directory names below the output directory.
const (
	MetadataDir = "metadata"
	ImagesDir   = "images"
	AllObjects  = "all-objects.json"
	RCFile      = ".generatorrc"
	ReportFile  = "report.json"
)

// MetadataPath returns the metadata file of tokenID.
func MetadataPath(dir string, tokenID int) string {
	return filepath.Join(dir, MetadataDir, strconv.Itoa(tokenID)+".json")
}

// AllObjectsPath returns the path of the run-wide metadata file.
func AllObjectsPath(dir string) string {
	return filepath.Join(dir, MetadataDir, AllObjects)
}
