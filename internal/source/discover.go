package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var layerExts = []string{".geojson", ".json"}

// Discover expands args into layer paths. Files are kept as given, in order;
// directories are walked for .geojson and .json files, in lexical order.
//
// Example:
//
//	paths, err := source.Discover([]string{"data/", "extra/roads.geojson"})
//	fmt.Printf("Found %d layers\n", len(paths))
func Discover(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// missing files are reported when opened
			paths = append(paths, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isLayer(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk directory: %w", err)
		}
	}
	return paths, nil
}

func isLayer(path string) bool {
	return slices.Contains(layerExts, strings.ToLower(filepath.Ext(path)))
}
