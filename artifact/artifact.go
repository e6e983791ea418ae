// Package artifact packages a collected output directory for distribution:
// a zip archive named after the manifest's master change id, and a copy
// of every file with the ".bytes" suffix Unity expects for TextAssets.
package artifact

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/MilthmLang/LanguageCollector/manifest"
	"go.uber.org/zap"
)

// NamePrefix is the archive file name prefix.
const NamePrefix = "milthm-translations"

// UnitySuffix is appended to every file name by CopyUnity.
const UnitySuffix = ".bytes"

// Name returns the archive file name for a master change id.
func Name(lastID int64) string {
	return fmt.Sprintf("%s-%d.zip", NamePrefix, lastID)
}

// Package zips outputDir into destDir, naming the archive after the
// __master entry of outputDir/__meta.json. It returns the archive path.
func Package(outputDir, destDir string, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	m, err := manifest.Load(outputDir)
	if err != nil {
		return "", err
	}
	master, err := m.Master()
	if err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Join(outputDir, manifest.FileName), err)
	}

	dest := filepath.Join(destDir, Name(master.LastID))
	n, err := Zip(outputDir, dest)
	if err != nil {
		return "", err
	}
	log.Info("Archive written", zap.String("path", dest), zap.Int("files", n), zap.Int64("master_last_id", master.LastID))
	return dest, nil
}

// listFiles returns the regular files under dir as sorted slash paths.
func listFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Zip archives every regular file of srcDir into destPath with a sorted
// entry order and the files' modification times. A destPath inside srcDir
// is not archived into itself.
func Zip(srcDir, destPath string) (int, error) {
	files, err := listFiles(srcDir)
	if err != nil {
		return 0, err
	}

	absDest, _ := filepath.Abs(destPath)

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return 0, fmt.Errorf("creating directory: %w", err)
	}
	out, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", destPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	n := 0
	for _, rel := range files {
		path := filepath.Join(srcDir, filepath.FromSlash(rel))
		if abs, _ := filepath.Abs(path); abs == absDest {
			continue
		}
		if err := addFile(zw, path, rel); err != nil {
			zw.Close()
			return n, err
		}
		n++
	}
	if err := zw.Close(); err != nil {
		return n, fmt.Errorf("finalizing %s: %w", destPath, err)
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("closing %s: %w", destPath, err)
	}
	return n, nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	return nil
}

// CopyUnity copies every regular file of srcDir into destDir, keeping the
// relative layout and appending UnitySuffix to each name.
func CopyUnity(srcDir, destDir string) (int, error) {
	files, err := listFiles(srcDir)
	if err != nil {
		return 0, err
	}

	for i, rel := range files {
		src := filepath.Join(srcDir, filepath.FromSlash(rel))
		dst := filepath.Join(destDir, filepath.FromSlash(rel)+UnitySuffix)
		if err := copyFile(src, dst); err != nil {
			return i, err
		}
	}
	return len(files), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
