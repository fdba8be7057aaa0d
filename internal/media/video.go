package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"strings"

	"auto-thumbnail/internal/logging"

	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

var (
	// ErrToolUnavailable means ffmpeg or ffprobe is not on PATH.
	ErrToolUnavailable = errors.New("required media tool not found")

	// ErrNoVideoStream is returned for containers without a video stream.
	ErrNoVideoStream = errors.New("no video stream")

	// ErrNoFrames is returned when the video stream yields no decodable frame.
	ErrNoFrames = errors.New("no decodable frames")

	// ErrFrameSizeMismatch is returned when the decoded buffer length does not
	// equal width*height*3 for the declared dimensions.
	ErrFrameSizeMismatch = errors.New("frame buffer does not match declared dimensions")
)

// rgb24Channels is the byte count per pixel of a raw rgb24 frame.
const rgb24Channels = 3

// VideoDecoder thumbnails the first decodable frame of a video container.
type VideoDecoder struct{}

// Decode probes the container for its dimensions, pulls the first frame as
// raw RGB24 and fits it into the box.
func (VideoDecoder) Decode(path string, maxWidth, maxHeight int) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	for _, tool := range []string{"ffprobe", "ffmpeg"} {
		if _, err := exec.LookPath(tool); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrToolUnavailable, tool, err)
		}
	}

	probe, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	stream, err := selectVideoStream(probe)
	if err != nil {
		return nil, err
	}

	raw, err := firstFrameRGB24(path, stream.index)
	if err != nil {
		return nil, err
	}

	frame, err := FrameFromRGB24(raw, stream.width, stream.height)
	if err != nil {
		return nil, err
	}

	logging.Debug("Extracted first frame of %s (stream %d): %dx%d, fitting to %dx%d",
		path, stream.index, stream.width, stream.height, maxWidth, maxHeight)

	return Fit(frame, maxWidth, maxHeight), nil
}

// videoStream is the stream ffmpeg is told to decode and its display size.
type videoStream struct {
	index  int64
	width  int
	height int
}

// selectVideoStream picks the first video stream that is not an attached
// picture (cover art) from ffprobe JSON. A +/-90 degree rotation swaps width
// and height, matching ffmpeg's autorotation of decoded frames.
func selectVideoStream(probe string) (videoStream, error) {
	var stream gjson.Result
	for _, s := range gjson.Get(probe, `streams.#(codec_type=="video")#`).Array() {
		if s.Get("disposition.attached_pic").Int() == 1 {
			continue
		}
		stream = s
		break
	}
	if !stream.Exists() {
		return videoStream{}, ErrNoVideoStream
	}

	width := int(stream.Get("width").Int())
	height := int(stream.Get("height").Int())
	if width <= 0 || height <= 0 {
		return videoStream{}, fmt.Errorf("%w: invalid declared size %dx%d", ErrNoVideoStream, width, height)
	}

	var rotation int64
	if tag := stream.Get("tags.rotate"); tag.Exists() {
		rotation = tag.Int()
	} else if side := stream.Get("side_data_list.#.rotation").Array(); len(side) > 0 {
		rotation = side[0].Int()
	}
	if r := rotation % 180; r == 90 || r == -90 {
		width, height = height, width
	}
	return videoStream{index: stream.Get("index").Int(), width: width, height: height}, nil
}

// firstFrameRGB24 decodes exactly one frame of the given stream, the first
// displayable one, and returns its raw rgb24 bytes.
func firstFrameRGB24(path string, streamIndex int64) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	err := ffmpeg.Input(path).
		Output("pipe:", ffmpeg.KwArgs{
			"map":     fmt.Sprintf("0:%d", streamIndex),
			"vframes": 1,
			"format":  "rawvideo",
			"pix_fmt": "rgb24",
		}).
		WithOutput(&stdout).
		WithErrorOutput(&stderr).
		Run()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, lastLine(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// FrameFromRGB24 rebuilds an opaque frame from a tightly packed rgb24 buffer
// whose row pitch is width*3.
func FrameFromRGB24(buf []byte, width, height int) (*image.NRGBA, error) {
	if len(buf) == 0 {
		return nil, ErrNoFrames
	}
	if width <= 0 || height <= 0 || len(buf) != width*height*rgb24Channels {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%d", ErrFrameSizeMismatch, len(buf), width, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for src, dst := 0, 0; src < len(buf); src, dst = src+rgb24Channels, dst+4 {
		img.Pix[dst] = buf[src]
		img.Pix[dst+1] = buf[src+1]
		img.Pix[dst+2] = buf[src+2]
		img.Pix[dst+3] = 0xFF
	}
	return img, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
