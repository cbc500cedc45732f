// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-wrss.
//
// go-wrss is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectOnce(t *testing.T) {
	Enable()
	Goroutines.Set(0)
	MemoryAllocBytes.Set(0)

	CollectOnce()

	if v := testutil.ToFloat64(Goroutines); v <= 0 {
		t.Errorf("Expected goroutine count > 0, got %v", v)
	}
	if v := testutil.ToFloat64(MemoryAllocBytes); v <= 0 {
		t.Errorf("Expected allocated bytes > 0, got %v", v)
	}
}

func TestCollectOnceWhenDisabled(t *testing.T) {
	Disable()
	defer Enable()

	Goroutines.Set(0)
	CollectOnce()

	if v := testutil.ToFloat64(Goroutines); v != 0 {
		t.Errorf("Expected goroutine gauge untouched when disabled, got %v", v)
	}
}

func TestWriteTextfile(t *testing.T) {
	Enable()
	RecordOperation(OpDecrypt, StatusSuccess, 0.01)

	path := filepath.Join(t.TempDir(), "wrss.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read textfile: %v", err)
	}
	out := string(data)
	for _, name := range []string{"wrss_operations_total", "wrss_goroutines", "wrss_operation_duration_seconds_bucket"} {
		if !strings.Contains(out, name) {
			t.Errorf("Expected textfile to contain %s", name)
		}
	}

	if err := WriteTextfile(""); err == nil {
		t.Error("Expected error for empty path")
	}
}
