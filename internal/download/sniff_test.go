package download

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSniffFixture(t *testing.T, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, content, 0o644))
	return p
}

func TestSniffAcceptsGzip(t *testing.T) {
	p := writeSniffFixture(t, "a.tar.gz", []byte{0x1f, 0x8b, 0x08, 0x00})
	assert.NoError(t, Sniff(p))
}

func TestSniffAcceptsXZ(t *testing.T) {
	p := writeSniffFixture(t, "a.tar.xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00})
	assert.NoError(t, Sniff(p))
}

func TestSniffAcceptsPlainUstarTar(t *testing.T) {
	header := make([]byte, 265)
	copy(header[257:262], []byte("ustar"))
	p := writeSniffFixture(t, "a.tar", header)
	assert.NoError(t, Sniff(p))
}

func TestSniffRejectsUnrecognizedContent(t *testing.T) {
	p := writeSniffFixture(t, "a.bin", []byte("not an archive"))
	assert.Error(t, Sniff(p))
}

func TestSniffRejectsMissingFile(t *testing.T) {
	err := Sniff(filepath.Join(t.TempDir(), "missing.tar.gz"))
	assert.Error(t, err)
}
