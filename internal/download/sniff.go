package download

import (
	"bytes"
	"fmt"
	"os"

	"launchpad/internal/errs"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
	ustarTag  = []byte("ustar")
)

// Sniff reads the leading bytes of path and accepts gzip, xz, or a plain
// ustar tar at offset 257. It rejects everything else.
func Sniff(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errs.Integrity("sniff "+path, err)
	}
	defer f.Close()

	header := make([]byte, 265)
	n, _ := f.Read(header)
	header = header[:n]

	if bytes.HasPrefix(header, gzipMagic) {
		return nil
	}
	if bytes.HasPrefix(header, xzMagic) {
		return nil
	}
	if len(header) >= 262 && bytes.Equal(header[257:262], ustarTag) {
		return nil
	}

	return errs.Integrity("sniff "+path, fmt.Errorf("unrecognized archive format"))
}
