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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("generates sorted checksums", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		b := filepath.Join(dir, "b.h")
		a := filepath.Join(dir, "a.h")
		writeFile(t, b, "content2")
		writeFile(t, a, "content1")

		entries, err := Generate(context.Background(), dir, []string{b, a})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(entries) != 2 || entries[0].Path != "a.h" || entries[1].Path != "b.h" {
			t.Fatalf("unexpected entries: %+v", entries)
		}
		if entries[0].Size != int64(len("content1")) {
			t.Errorf("Size = %d", entries[0].Size)
		}

		data, err := os.ReadFile(FilePath(dir))
		if err != nil {
			t.Fatalf("failed to read checksums: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		for _, line := range lines {
			parts := strings.Split(line, "  ")
			if len(parts) != 2 {
				t.Errorf("invalid checksum format: %s", line)
			}
			if len(parts[0]) != 64 {
				t.Errorf("expected 64 character hash, got %d: %s", len(parts[0]), parts[0])
			}
		}
		if !strings.HasSuffix(lines[0], "  a.h") {
			t.Errorf("first line should be a.h: %s", lines[0])
		}
	})

	t.Run("known digest", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		f := filepath.Join(dir, "empty")
		writeFile(t, f, "")

		entries, err := Generate(context.Background(), dir, []string{f})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		const emptySHA = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		if entries[0].Digest != emptySHA {
			t.Errorf("Digest = %s, want %s", entries[0].Digest, emptySHA)
		}
	})

	t.Run("returns error on context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := Generate(ctx, t.TempDir(), nil); err == nil {
			t.Error("expected error for cancelled context")
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if _, err := Generate(context.Background(), dir, []string{filepath.Join(dir, "missing.h")}); err == nil {
			t.Error("expected error for non-existent file")
		}
	})
}

func TestGenerateDirAndVerify(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "licenses", "LICENSE"), "MIT")
	writeFile(t, filepath.Join(dir, "include", "FreeRTOS.h"), "#pragma once\n")
	writeFile(t, filepath.Join(dir, "lib", "libfreertos.a"), "!<arch>\n")

	entries, err := GenerateDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("GenerateDir() error = %v", err)
	}
	want := []string{"include/FreeRTOS.h", "lib/libfreertos.a", "licenses/LICENSE"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Path != want[i] {
			t.Errorf("entries[%d] = %s, want %s", i, e.Path, want[i])
		}
	}

	// Regenerating must not list the checksum file itself.
	entries, err = GenerateDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("GenerateDir() error = %v", err)
	}
	if len(entries) != len(want) {
		t.Errorf("checksum file was included: %+v", entries)
	}

	if err := Verify(context.Background(), dir); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	writeFile(t, filepath.Join(dir, "licenses", "LICENSE"), "tampered")
	err = Verify(context.Background(), dir)
	if err == nil || !strings.Contains(err.Error(), "licenses/LICENSE") {
		t.Errorf("expected mismatch naming licenses/LICENSE, got %v", err)
	}
}

func TestVerifyErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := Verify(context.Background(), dir); err == nil {
		t.Error("expected error without checksum file")
	}

	writeFile(t, FilePath(dir), "not-a-checksum-line\n")
	if err := Verify(context.Background(), dir); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestFilePath(t *testing.T) {
	t.Parallel()

	if got := FilePath("/some/package"); got != "/some/package/checksums.txt" {
		t.Errorf("FilePath() = %s", got)
	}
}
