package ffmpeg

import (
	"bytes"
	"testing"
	"time"
)

func TestParsePTSTimes(t *testing.T) {
	output := `[Parsed_showinfo_1 @ 0x5654] n:   0 pts:  12800 pts_time:0.4     duration_time:0.04
[Parsed_showinfo_1 @ 0x5654] n:   1 pts:  96000 pts_time:3.2     duration_time:0.04
some unrelated line
[Parsed_showinfo_1 @ 0x5654] n:   2 pts: 240000 pts_time:8       duration_time:0.04
`

	times := parsePTSTimes(output)
	expected := []time.Duration{
		400 * time.Millisecond,
		3200 * time.Millisecond,
		8 * time.Second,
	}

	if len(times) != len(expected) {
		t.Fatalf("parsed %d timestamps, want %d: %v", len(times), len(expected), times)
	}
	for i := range times {
		if times[i] != expected[i] {
			t.Errorf("timestamp %d = %v, want %v", i, times[i], expected[i])
		}
	}
}

func TestParsePTSTimesEmpty(t *testing.T) {
	if times := parsePTSTimes("frame=  100 fps= 25 q=-0.0\n"); times != nil {
		t.Errorf("expected no timestamps, got %v", times)
	}
}

func TestSplitJPEGs(t *testing.T) {
	jpegA := []byte{0xFF, 0xD8, 0x01, 0x02, 0x03, 0xFF, 0xD9}
	jpegB := []byte{0xFF, 0xD8, 0xAA, 0xFF, 0xD9}

	var stream bytes.Buffer
	stream.Write(jpegA)
	stream.Write(jpegB)

	images := splitJPEGs(stream.Bytes())
	if len(images) != 2 {
		t.Fatalf("split %d images, want 2", len(images))
	}
	if !bytes.Equal(images[0], jpegA) {
		t.Errorf("first image = %x, want %x", images[0], jpegA)
	}
	if !bytes.Equal(images[1], jpegB) {
		t.Errorf("second image = %x, want %x", images[1], jpegB)
	}
}

func TestSplitJPEGsTruncatedTail(t *testing.T) {
	jpegA := []byte{0xFF, 0xD8, 0x01, 0xFF, 0xD9}
	truncated := []byte{0xFF, 0xD8, 0x02, 0x03} // no EOI

	images := splitJPEGs(append(append([]byte{}, jpegA...), truncated...))
	if len(images) != 1 {
		t.Fatalf("split %d images, want 1 (truncated frame dropped)", len(images))
	}
}

func TestSplitJPEGsEmpty(t *testing.T) {
	if images := splitJPEGs(nil); images != nil {
		t.Errorf("expected nil for empty stream, got %v", images)
	}
}
