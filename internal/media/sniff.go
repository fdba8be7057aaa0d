package media

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"auto-thumbnail/internal/logging"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLimit is how many leading bytes are inspected.
const sniffLimit = 3072

const mimeTGA = "image/x-tga"

// Sniff returns the MIME type of the file at path, determined from its
// content rather than its name.
func Sniff(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close %s: %v", path, err)
		}
	}()

	return sniffReader(file)
}

func sniffReader(r io.Reader) (string, error) {
	header := make([]byte, sniffLimit)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read header: %w", err)
	}
	header = header[:n]

	mtype := mimetype.Detect(header)

	// TGA has no magic number. Headerless TGAs come back as octet-stream and
	// uncompressed truecolor ones collide with the cursor signature.
	if (mtype.Is("application/octet-stream") || mtype.Is("image/x-icon")) && looksLikeTGA(header) {
		return mimeTGA, nil
	}
	return mtype.String(), nil
}

// looksLikeTGA validates the fixed 18 byte TGA header.
func looksLikeTGA(h []byte) bool {
	if len(h) < 18 {
		return false
	}

	colorMapType, imageType := h[1], h[2]
	switch imageType {
	case 1, 9: // colour mapped
		if colorMapType != 1 {
			return false
		}
	case 2, 3, 10, 11: // truecolor, grayscale
		if colorMapType > 1 {
			return false
		}
	default:
		return false
	}

	width := binary.LittleEndian.Uint16(h[12:14])
	height := binary.LittleEndian.Uint16(h[14:16])
	if width == 0 || height == 0 {
		return false
	}

	switch h[16] {
	case 8, 15, 16, 24, 32:
	default:
		return false
	}

	// interleaving bits are never set by real encoders
	return h[17]&0xC0 == 0
}
