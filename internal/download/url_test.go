package download

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildURL(t *testing.T) {
	got := BuildURL("https://dist.example.com", "nodejs.org", "darwin", "aarch64", "22.5.1", FormatTarXZ)
	assert.Equal(t, "https://dist.example.com/nodejs.org/darwin/aarch64/v22.5.1.tar.xz", got)
}

func TestNormalizeArch(t *testing.T) {
	cases := map[string]string{
		"amd64":   "x86_64",
		"arm64":   "aarch64",
		"arm":     "armv7l",
		"riscv64": "riscv64",
	}
	for goarch, want := range cases {
		assert.Equal(t, want, NormalizeArch(goarch), goarch)
	}
}

func TestFormatsTryOrderPrefersXZ(t *testing.T) {
	assert.Equal(t, []Format{FormatTarXZ, FormatTarGZ}, Formats)
}
