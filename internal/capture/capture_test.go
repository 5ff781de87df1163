package capture_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"species-sorter/internal/capture"
	"species-sorter/internal/testsupport"
)

func TestExtractCorridor(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"sector prefix", `...SECTOR_A-CORRIDOR-07\rest`, "SECTOR_A-CORRIDOR-07"},
		{"camera record", string(testsupport.CameraNote("NORTH-CORRIDOR-03")), "NORTH-CORRIDOR-03"},
		{"bare corridor", `FW\CORRIDOR-12\x`, "CORRIDOR-12"},
		{"no trailing backslash", "CAM CORRIDOR-5", "CORRIDOR-5"},
		{"stops at nul", "X\\EAST-CORRIDOR-1\x00\x00junk", "EAST-CORRIDOR-1"},
		{"trims spaces", `\ CORRIDOR-2  \`, "CORRIDOR-2"},
		{"absent", `BSCAM\FW 2.1\TEMP`, ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := capture.ExtractCorridor(tt.text); got != tt.want {
				t.Fatalf("ExtractCorridor(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitCorridor(t *testing.T) {
	tests := []struct {
		id         string
		wantSector string
		wantID     string
	}{
		{"SECTOR_A-CORRIDOR-07", "SECTOR_A", "CORRIDOR-07"},
		{"SECTOR-CORRIDOR-03", "SECTOR", "CORRIDOR-03"},
		{"CORRIDOR-07", "CORRIDOR", "07"},
		{"CORRIDOR", "", "CORRIDOR"},
		{"CORRIDOR-", "", "CORRIDOR"},
		{"A/B-CORRIDOR-1", "A_B", "CORRIDOR-1"},
	}
	for _, tt := range tests {
		got, err := capture.SplitCorridor(tt.id)
		if err != nil {
			t.Fatalf("SplitCorridor(%q) error: %v", tt.id, err)
		}
		if got.Sector != tt.wantSector || got.ID != tt.wantID {
			t.Fatalf("SplitCorridor(%q) = %+v, want %s/%s", tt.id, got, tt.wantSector, tt.wantID)
		}
	}
	if _, err := capture.SplitCorridor(""); !errors.Is(err, capture.ErrNoCorridor) {
		t.Fatalf("expected ErrNoCorridor for empty id, got %v", err)
	}
}

func TestCorridorPath(t *testing.T) {
	c := capture.Corridor{Sector: "SECTOR_A", ID: "CORRIDOR-07"}
	if got, want := c.Path(), filepath.Join("SECTOR_A", "CORRIDOR-07"); got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}
	if c.String() != "SECTOR_A-CORRIDOR-07" {
		t.Fatalf("String = %q", c.String())
	}
}

func TestDatePathUsesISOWeek(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2023:01:02 10:00:00", filepath.Join("2023", "week1")},
		{"2023:06:15 23:59:59", filepath.Join("2023", "week24")},
		{"2021:01:01 08:00:00", filepath.Join("2020", "week53")},
		{"2024:12:30 12:00:00", filepath.Join("2025", "week1")},
	}
	for _, tt := range tests {
		ts, err := capture.ParseTimestamp(tt.raw)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", tt.raw, err)
		}
		if got := capture.DatePath(ts); got != tt.want {
			t.Fatalf("DatePath(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2023:01:02 10:00:00",
		"2023:01:02 10:00:00\x00",
		"2023:01:02 10:00:00\x00 ",
		"2023:01:02 10:00:00 \x00\x00",
		" 2023:01:02 10:00:00\x00 \x00 ",
	} {
		got, err := capture.ParseTimestamp(raw)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) returned error: %v", raw, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseTimestamp(%q) = %v, want %v", raw, got, want)
		}
	}
	if _, err := capture.ParseTimestamp("2023-01-02T10:00:00"); err == nil {
		t.Fatal("expected layout error")
	}
}

func TestReadDecodesDateAndCorridor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img1.jpg")
	testsupport.WriteJPEG(t, path, testsupport.EXIF{
		DateTimeOriginal: "2023:01:02 10:00:00",
		MakerNote:        testsupport.CameraNote("SECTOR_A-CORRIDOR-07"),
	})

	c, err := capture.Reader{}.Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if !c.Taken.Equal(time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected capture time %v", c.Taken)
	}
	want := filepath.Join("2023", "week1", "SECTOR_A", "CORRIDOR-07")
	if c.Dir() != want {
		t.Fatalf("Dir = %q, want %q", c.Dir(), want)
	}
}

func TestReadWithoutExifFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.jpg")
	testsupport.WriteJPEGWithoutEXIF(t, path)

	_, err := capture.Reader{}.Read(path)
	if !errors.Is(err, capture.ErrNoExif) {
		t.Fatalf("expected ErrNoExif, got %v", err)
	}
}

func TestReadWithoutTimestampFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodate.jpg")
	testsupport.WriteJPEG(t, path, testsupport.EXIF{MakerNote: testsupport.CameraNote("X-CORRIDOR-1")})

	_, err := capture.Reader{}.Read(path)
	if !errors.Is(err, capture.ErrNoTimestamp) {
		t.Fatalf("expected ErrNoTimestamp, got %v", err)
	}
}

func TestReadMissingCorridor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nocorridor.jpg")
	testsupport.WriteJPEG(t, path, testsupport.EXIF{
		DateTimeOriginal: "2023:03:10 06:30:00",
		MakerNote:        []byte(`BSCAM\FW 2.1\TEMP 21C`),
	})

	if _, err := (capture.Reader{}).Read(path); !errors.Is(err, capture.ErrNoCorridor) {
		t.Fatalf("expected ErrNoCorridor, got %v", err)
	}

	c, err := capture.Reader{UnknownCorridor: "no-corridor"}.Read(path)
	if err != nil {
		t.Fatalf("Read with fallback returned error: %v", err)
	}
	if want := filepath.Join("2023", "week10", "no-corridor"); c.Dir() != want {
		t.Fatalf("Dir = %q, want %q", c.Dir(), want)
	}
}
