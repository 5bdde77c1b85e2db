// Package dirload populates a store.ByteStore from a directory tree on
// disk, seeding a store from a fixture tree of resources and
// recipes.yaml files.
package dirload

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/store"
)

// Load walks every regular file under root and Sets it into dest under
// the query.Key formed from its path relative to root, "/"-separated.
// Directories named ".git" are skipped. progress, if non-nil, is called
// once per loaded file with the relative path.
func Load(ctx context.Context, root string, dest store.ByteStore, progress func(relPath string)) (int, error) {
	count := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		key := keyFromPath(rel)
		if err := dest.Set(ctx, key, data); err != nil {
			return err
		}
		count++
		if progress != nil {
			progress(rel)
		}
		return nil
	})
	return count, err
}

func keyFromPath(rel string) query.Key {
	parts := strings.Split(rel, "/")
	return query.NewKey(parts...)
}
