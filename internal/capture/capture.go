package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ErrNoExif reports an image without readable EXIF metadata.
var ErrNoExif = errors.New("no exif data found")

// ErrNoTimestamp reports EXIF metadata without DateTimeOriginal.
var ErrNoTimestamp = errors.New("no DateTimeOriginal in exif data")

// Capture is what routing needs to know about one image.
type Capture struct {
	Taken    time.Time
	Corridor Corridor
}

// Dir returns the relative directory the image belongs in, before the
// species label: "<year>/week<w>/<sector>/<corridor>".
func (c Capture) Dir() string {
	return filepath.Join(DatePath(c.Taken), c.Corridor.Path())
}

// Reader reads Capture values from image files.
type Reader struct {
	// UnknownCorridor, when set, is used as the corridor folder for images
	// whose metadata has no CORRIDOR identifier. When empty those images fail
	// with ErrNoCorridor.
	UnknownCorridor string
}

// Read decodes the EXIF block of the image at path.
func (r Reader) Read(path string) (Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return Capture{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		if err == nil {
			return Capture{}, fmt.Errorf("%w for file: %s", ErrNoExif, path)
		}
		return Capture{}, fmt.Errorf("%w for file: %s: %w", ErrNoExif, path, err)
	}

	taken, err := captureTime(x)
	if err != nil {
		return Capture{}, fmt.Errorf("%s: %w", path, err)
	}

	corridor, err := r.corridor(x)
	if err != nil {
		return Capture{}, fmt.Errorf("%s: %w", path, err)
	}

	return Capture{Taken: taken, Corridor: corridor}, nil
}

func captureTime(x *exif.Exif) (time.Time, error) {
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, ErrNoTimestamp
	}
	raw, err := tag.StringVal()
	if err != nil {
		return time.Time{}, fmt.Errorf("DateTimeOriginal: %w", err)
	}
	return ParseTimestamp(raw)
}

func (r Reader) corridor(x *exif.Exif) (Corridor, error) {
	var text string
	if tag, err := x.Get(exif.MakerNote); err == nil {
		text = string(tag.Val)
	}
	c, err := SplitCorridor(ExtractCorridor(text))
	if errors.Is(err, ErrNoCorridor) && r.UnknownCorridor != "" {
		return Corridor{ID: CleanSegment(r.UnknownCorridor)}, nil
	}
	return c, err
}
