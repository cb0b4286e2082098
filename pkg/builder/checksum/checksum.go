// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package checksum

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileName is the standard name for checksum files.
const FileName = "checksums.txt"

// Entry is one line of a checksum file.
type Entry struct {
	Digest string `json:"sha256" yaml:"sha256"`
	Path   string `json:"path" yaml:"path"`
	Size   int64  `json:"size" yaml:"size"`
}

// Collect lists every regular file under dir, excluding the checksum file,
// sorted by slash-separated relative path.
func Collect(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if rel, _ := filepath.Rel(dir, path); rel == FileName {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Generate writes checksums.txt into dir for the given files, paths relative
// to dir. Lines are "<sha256>  <path>", sorted by path.
func Generate(ctx context.Context, dir string, files []string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled: %w", err)
		}

		digest, size, err := fileDigest(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s for checksum: %w", file, err)
		}

		rel, err := filepath.Rel(dir, file)
		if err != nil {
			rel = file
		}
		entries = append(entries, Entry{Digest: digest, Path: filepath.ToSlash(rel), Size: size})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	var buf bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&buf, "%s  %s\n", e.Digest, e.Path)
	}

	path := FilePath(dir)
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return nil, fmt.Errorf("failed to write checksums: %w", err)
	}

	slog.Debug("checksums generated",
		"file_count", len(entries),
		"path", path,
	)

	return entries, nil
}

// GenerateDir collects every file under dir and writes its checksum file.
func GenerateDir(ctx context.Context, dir string) ([]Entry, error) {
	files, err := Collect(dir)
	if err != nil {
		return nil, err
	}
	return Generate(ctx, dir, files)
}

// Verify re-hashes every file listed in dir's checksum file.
func Verify(ctx context.Context, dir string) error {
	f, err := os.Open(FilePath(dir))
	if err != nil {
		return fmt.Errorf("failed to open checksums: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}

		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		want, rel, ok := strings.Cut(text, "  ")
		if !ok || len(want) != sha256.Size*2 {
			return fmt.Errorf("malformed checksum line %d: %q", line, text)
		}

		got, _, err := fileDigest(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}
		if got != want {
			return fmt.Errorf("checksum mismatch for %s: got %s, want %s", rel, got, want)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read checksums: %w", err)
	}
	return nil
}

// FilePath returns the full path to the checksum file in dir.
func FilePath(dir string) string {
	return filepath.Join(dir, FileName)
}

func fileDigest(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
