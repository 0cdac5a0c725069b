package employee

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const avatarSize = 1024

// NormalizeAvatar decodes an uploaded image (jpeg or png), crops and
// scales it to a square avatar, and re-encodes it as PNG for storage.
func NormalizeAvatar(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	normalized := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, normalized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}
