// Package assets locates and installs the icon files the diagram
// references. The SVG points at assets/icons/<kind>.png relative to the
// output directory, so every render copies the icon tree next to the
// generated files.
package assets

import (
	"os"
	"path/filepath"

	"github.com/sasutils/sastopo2svg/pkg/errors"
)

// IconsSubdir is the icon directory created under the output directory,
// matching the relative paths embedded in the diagram.
const IconsSubdir = "assets/icons"

// iconNames are the files a complete asset directory must provide, one
// per vertex kind.
var iconNames = []string{
	"initiator.png",
	"port.png",
	"expander.png",
	"target.png",
}

// DefaultDir returns the asset directory installed alongside the binary:
// <bindir>/assets. Callers can override it with an explicit directory.
func DefaultDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIOFailure, err, "resolve executable path")
	}
	return filepath.Join(filepath.Dir(exe), "assets"), nil
}

// Validate checks that dir contains an icon for every vertex kind.
func Validate(dir string) error {
	icons := filepath.Join(dir, "icons")
	for _, name := range iconNames {
		if _, err := os.Stat(filepath.Join(icons, name)); err != nil {
			return errors.Wrap(errors.ErrCodeIOFailure, err, "asset directory %s is missing icon %s", dir, name)
		}
	}
	return nil
}

// Install copies the asset tree from srcDir into outDir/assets so the
// diagram's relative icon references resolve. Existing files are
// overwritten.
func Install(srcDir, outDir string) error {
	dst := filepath.Join(outDir, "assets")
	if err := os.RemoveAll(dst); err != nil {
		return errors.Wrap(errors.ErrCodeIOFailure, err, "clear %s", dst)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIOFailure, err, "create %s", dst)
	}
	if err := os.CopyFS(dst, os.DirFS(srcDir)); err != nil {
		return errors.Wrap(errors.ErrCodeIOFailure, err, "copy assets from %s", srcDir)
	}
	return nil
}
