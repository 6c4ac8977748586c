package processor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProcessSourceReordersOutOfOrderConstructs(t *testing.T) {
	src := `struct Point { x: i32, y: i32 }

fn main() {
    let a = Point { y: 2, x: 1 };
    let b = Point { x: 1, y: 2 };
}
`
	want := `struct Point { x: i32, y: i32 }

fn main() {
    let a = Point { x: 1, y: 2 };
    let b = Point { x: 1, y: 2 };
}
`

	got, result, err := ProcessSource([]byte(src), zap.NewNop())
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, 2, result.ConstructsFound)
	assert.Equal(t, 1, result.ConstructsNeedReorder)
	assert.Equal(t, want, string(got))
}

func TestProcessSourceIdempotent(t *testing.T) {
	src := `struct Point { x: i32, y: i32 }

fn main() {
    let a = Point { y: 2, x: 1 };
}
`
	first, result, err := ProcessSource([]byte(src), zap.NewNop())
	require.NoError(t, err)
	require.True(t, result.Changed)

	second, result, err := ProcessSource(first, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, 0, result.ConstructsNeedReorder)
	assert.Equal(t, string(first), string(second))
}

func TestProcessSourceNestedConstructs(t *testing.T) {
	src := `struct Inner { a: i32, b: i32 }
struct Outer { inner: Inner, flag: bool }

fn main() {
    let _ = Outer {
        flag: true,
        inner: Inner { b: 0, a: 1 },
    };
}
`
	want := `struct Inner { a: i32, b: i32 }
struct Outer { inner: Inner, flag: bool }

fn main() {
    let _ = Outer {
        inner: Inner { a: 1, b: 0 },
        flag: true,
    };
}
`

	got, result, err := ProcessSource([]byte(src), zap.NewNop())
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, 2, result.ConstructsFound)
	assert.Equal(t, 2, result.ConstructsNeedReorder)
	assert.Equal(t, want, string(got))
}

func TestProcessSourceLeavesUnresolvedAlone(t *testing.T) {
	src := `fn main() {
    let _ = Mystery { b: 0, a: 1 };
}
`
	got, result, err := ProcessSource([]byte(src), zap.NewNop())
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, 1, result.ConstructsFound)
	assert.Equal(t, 0, result.ConstructsNeedReorder)
	assert.Equal(t, src, string(got))
}

func TestProcessSourceNoConstructs(t *testing.T) {
	src := "fn main() { let x = 1; }\n"
	got, result, err := ProcessSource([]byte(src), zap.NewNop())
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, 0, result.ConstructsFound)
	assert.Equal(t, src, string(got))
}

func TestProcessFileDryRunDoesNotWrite(t *testing.T) {
	src := `struct Point { x: i32, y: i32 }

fn main() {
    let a = Point { y: 2, x: 1 };
}
`
	path := writeTemp(t, src)

	result, err := ProcessFile(path, Config{Offset: -1})
	require.NoError(t, err)
	assert.True(t, result.Changed)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src, string(onDisk), "dry-run must not modify the file")
}

func TestProcessFileWrite(t *testing.T) {
	src := `struct Point { x: i32, y: i32 }

fn main() {
    let a = Point { y: 2, x: 1 };
}
`
	path := writeTemp(t, src)

	result, err := ProcessFile(path, Config{Write: true, Offset: -1})
	require.NoError(t, err)
	require.True(t, result.Changed)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(onDisk), "Point { x: 1, y: 2 }")

	// A second run over the rewritten file is a no-op.
	result, err = ProcessFile(path, Config{Write: true, Offset: -1})
	require.NoError(t, err)
	assert.False(t, result.Changed)
}

func TestProcessFileOffsetMode(t *testing.T) {
	src := `struct Point { x: i32, y: i32 }

fn main() {
    let a = Point { y: 2, x: 1 };
    let b = Point { y: 2, x: 1 };
}
`
	path := writeTemp(t, src)

	// Cursor inside the first literal: only that construct is rewritten.
	offset := int64(strings.Index(src, "y: 2"))
	result, err := ProcessFile(path, Config{Offset: offset})
	require.NoError(t, err)
	assert.True(t, result.Changed)

	out := string(result.Output)
	assert.Contains(t, out, "let a = Point { x: 1, y: 2 };")
	assert.Contains(t, out, "let b = Point { y: 2, x: 1 };")
}

func TestProcessFileOffsetNotApplicable(t *testing.T) {
	src := `struct Point { x: i32, y: i32 }

fn main() {
    let a = Point { x: 1, y: 2 };
}
`
	path := writeTemp(t, src)

	offset := int64(strings.Index(src, "x: 1,"))
	result, err := ProcessFile(path, Config{Offset: offset})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, src, string(result.Output), "output is the unchanged source")
}

func writeTemp(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.rs")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func BenchmarkProcessSource(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("struct Point { x: i32, y: i32, z: i32 }\n\nfn main() {\n")
	for i := 0; i < 50; i++ {
		sb.WriteString("    let _ = Point { z: 3, y: 2, x: 1 };\n")
	}
	sb.WriteString("}\n")
	content := []byte(sb.String())
	logger := zap.NewNop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := ProcessSource(content, logger); err != nil {
			b.Fatal(err)
		}
	}
}
