package encryptor

import (
	"archive/tar"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// archiveBuild packages the build workspace into a tar+zstd bundle.
// Entry order is sorted and header metadata fixed, so the same workspace
// always produces the same archive bytes. Existing archives and
// per-vendor ciphertexts in the workspace are excluded.
func archiveBuild(buildRoot, archivePath string) error {
	var files []string
	err := filepath.WalkDir(buildRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasSuffix(name, ArchiveSuffix) || strings.HasSuffix(name, PackageSuffix) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)

	out, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw, err := zstd.NewWriter(out)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(zw)

	for _, path := range files {
		if err := addFile(tw, buildRoot, path); err != nil {
			tw.Close()
			zw.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return out.Sync()
}

func addFile(tw *tar.Writer, buildRoot, path string) error {
	rel, err := filepath.Rel(buildRoot, path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	// fixed mode and zero mtime keep the archive reproducible
	hdr := &tar.Header{
		Name: filepath.ToSlash(rel),
		Mode: 0o644,
		Size: info.Size(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}
