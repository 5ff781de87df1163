package predictions

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = "location,pred_1,score_1,pred_2,score_2,extra\n" +
	"a/img1.jpg,elephant,0.9,buffalo,0.6,x\n" +
	"img2.jpg, duiker ,0.2,,,y\n"

func TestReadParsesHeaderAndTypedCells(t *testing.T) {
	tbl, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tbl.Len())
	}
	if got := tbl.Location(0); got != "a/img1.jpg" {
		t.Fatalf("Location(0) = %q", got)
	}
	if got := tbl.Label(1, 1); got != "duiker" {
		t.Fatalf("Label trims whitespace, got %q", got)
	}
	score, err := tbl.Score(0, 2)
	if err != nil || score != 0.6 {
		t.Fatalf("Score(0,2) = %v, %v", score, err)
	}
	score, err = tbl.Score(1, 2)
	if err != nil || !math.IsNaN(score) {
		t.Fatalf("empty score should be NaN, got %v, %v", score, err)
	}
}

func TestScoreRejectsGarbage(t *testing.T) {
	tbl, err := Read(strings.NewReader("location,pred_1,score_1\nimg.jpg,zebra,high\n"))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if _, err := tbl.Score(0, 1); err == nil {
		t.Fatal("expected invalid score error")
	}
}

func TestRequireListsMissingColumns(t *testing.T) {
	tbl, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if err := tbl.Require(2); err != nil {
		t.Fatalf("Require(2) returned error: %v", err)
	}
	err = tbl.Require(3)
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if !strings.Contains(err.Error(), "pred_3, score_3") {
		t.Fatalf("error should name missing columns: %v", err)
	}
}

func TestSetColumnAppendsThenReplaces(t *testing.T) {
	tbl, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if err := tbl.SetColumn("pred_path_1", []string{"/out/a", ""}); err != nil {
		t.Fatalf("SetColumn returned error: %v", err)
	}
	if err := tbl.SetColumn("pred_path_1", []string{"/out/b", "/out/c"}); err != nil {
		t.Fatalf("SetColumn replace returned error: %v", err)
	}
	header := tbl.Header()
	if header[len(header)-1] != "pred_path_1" || len(header) != 7 {
		t.Fatalf("unexpected header %v", header)
	}
	if got := tbl.Value(1, "pred_path_1"); got != "/out/c" {
		t.Fatalf("Value = %q", got)
	}
	if err := tbl.SetColumn("short", []string{"x"}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestSavePreservesUnknownColumnsAndOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := Load(path, 2)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	for i, name := range PathColumns(2) {
		if err := tbl.SetColumn(name, []string{"p" + name, ""}); err != nil {
			t.Fatalf("SetColumn %d: %v", i, err)
		}
	}

	out := filepath.Join(t.TempDir(), "out.csv")
	if err := tbl.Save(out); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), data)
	}
	if lines[0] != "location,pred_1,score_1,pred_2,score_2,extra,pred_path_1,pred_path_2" {
		t.Fatalf("unexpected header line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "a/img1.jpg,") || !strings.HasSuffix(lines[2], ",y,,") {
		t.Fatalf("row order or cells changed: %q", lines)
	}
}

func TestReadRejectsRowsWiderThanHeader(t *testing.T) {
	_, err := Read(strings.NewReader("location,pred_1,score_1\nimg.jpg,lion,0.9\nimg2.jpg,lion,0.9,EXTRA,MORE\n"))
	if err == nil {
		t.Fatal("expected error for row with more fields than the header")
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Fatalf("error should name the row: %v", err)
	}

	tbl, err := Read(strings.NewReader("location,pred_1,score_1\nimg.jpg,lion\n"))
	if err != nil {
		t.Fatalf("short rows should be padded: %v", err)
	}
	if got := tbl.Value(0, "score_1"); got != "" {
		t.Fatalf("padded cell = %q, want empty", got)
	}
}

func TestReadStripsByteOrderMark(t *testing.T) {
	tbl, err := Read(bytes.NewReader([]byte("\ufefflocation,pred_1,score_1\nimg.jpg,lion,0.7\n")))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if err := tbl.Require(1); err != nil {
		t.Fatalf("BOM should not hide location column: %v", err)
	}
}

func TestPathColumns(t *testing.T) {
	got := strings.Join(PathColumns(3), ",")
	if got != "pred_path_1,pred_path_2,pred_path_3" {
		t.Fatalf("PathColumns(3) = %s", got)
	}
}
