package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeInfo describes a video stream as reported by ffprobe.
type ProbeInfo struct {
	TotalFrames int
	FPS         float64
	Width       int
	Height      int
}

// FrameReader yields decoded frames in stream order. ReadFrame returns io.EOF
// at end of stream. Close must be called on every exit path.
type FrameReader interface {
	ReadFrame() (*image.RGBA, error)
	Close() error
}

// FrameWriter appends frames to an output video. Close flushes the encoder
// and must be called on every exit path.
type FrameWriter interface {
	WriteFrame(frame *image.RGBA) error
	Close() error
}

// VideoIO abstracts video decode/encode so the pipeline can be exercised
// without a codec toolchain on the machine.
type VideoIO interface {
	Probe(ctx context.Context, path string) (ProbeInfo, error)
	OpenReader(ctx context.Context, path string, width, height int) (FrameReader, error)
	NewWriter(ctx context.Context, path string, width, height int, fps float64) (FrameWriter, error)
}

// FFmpeg implements VideoIO with ffmpeg/ffprobe subprocesses. Frames cross
// the pipe as raw RGBA, so no container parsing happens in-process; the
// output container is WebM with a VP8 video stream for browser playback.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	fallbackFPS float64
	logger      *slog.Logger
}

// Config holds the external codec toolchain settings
type Config struct {
	FFmpegPath  string
	FFprobePath string
	FallbackFPS float64
}

// NewFFmpeg creates a VideoIO backed by the ffmpeg toolchain.
func NewFFmpeg(cfg *Config, logger *slog.Logger) *FFmpeg {
	ffmpegPath := cfg.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	ffprobePath := cfg.FFprobePath
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	fallbackFPS := cfg.FallbackFPS
	if fallbackFPS <= 0 {
		fallbackFPS = 24
	}

	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		fallbackFPS: fallbackFPS,
		logger:      logger,
	}
}

// probeStream mirrors the ffprobe JSON stream entry. nb_frames is a string
// in ffprobe output and may be absent for containers without an index.
type probeStream struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	NBFrames  string `json:"nb_frames"`
	FrameRate string `json:"r_frame_rate"`
}

// Probe reads stream metadata. A missing or unparsable frame count falls
// back to 1 so progress arithmetic never divides by zero; a missing frame
// rate falls back to the configured default.
func (f *FFmpeg) Probe(ctx context.Context, path string) (ProbeInfo, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,nb_frames,r_frame_rate",
		"-of", "json",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return ProbeInfo{}, fmt.Errorf("ffprobe failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	var out struct {
		Streams []probeStream `json:"streams"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return ProbeInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return ProbeInfo{}, fmt.Errorf("no video stream in %s", path)
	}

	stream := out.Streams[0]
	info := ProbeInfo{
		TotalFrames: 1,
		FPS:         f.fallbackFPS,
		Width:       stream.Width,
		Height:      stream.Height,
	}

	if n, err := strconv.Atoi(stream.NBFrames); err == nil && n > 0 {
		info.TotalFrames = n
	}
	if fps := parseFrameRate(stream.FrameRate); fps > 0 {
		info.FPS = fps
	}

	f.logger.Debug("Video probed",
		slog.String("path", path),
		slog.Int("total_frames", info.TotalFrames),
		slog.Float64("fps", info.FPS),
		slog.Int("width", info.Width),
		slog.Int("height", info.Height),
	)

	return info, nil
}

// parseFrameRate parses ffprobe's rational frame rate ("30000/1001").
func parseFrameRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		v, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return 0
		}
		return v
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// OpenReader starts an ffmpeg decoder producing raw RGBA frames of the given
// dimensions on its stdout pipe.
func (f *FFmpeg) OpenReader(ctx context.Context, path string, width, height int) (FrameReader, error) {
	cmd := exec.CommandContext(ctx, f.ffmpegPath,
		"-v", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg decoder: %w", err)
	}

	return &ffmpegReader{
		cmd:    cmd,
		stdout: stdout,
		stderr: &stderr,
		width:  width,
		height: height,
	}, nil
}

type ffmpegReader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
	width  int
	height int
	closed bool
}

func (r *ffmpegReader) ReadFrame() (*image.RGBA, error) {
	buf := make([]byte, r.width*r.height*4)
	if _, err := io.ReadFull(r.stdout, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}

	return &image.RGBA{
		Pix:    buf,
		Stride: r.width * 4,
		Rect:   image.Rect(0, 0, r.width, r.height),
	}, nil
}

// Close releases the decoder subprocess. Closing before end of stream makes
// ffmpeg exit with a pipe error, which is expected and discarded.
func (r *ffmpegReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	r.stdout.Close()
	_ = r.cmd.Wait()
	return nil
}

// NewWriter starts an ffmpeg encoder consuming raw RGBA frames on stdin and
// writing a VP8/WebM file.
func (f *FFmpeg) NewWriter(ctx context.Context, path string, width, height int, fps float64) (FrameWriter, error) {
	cmd := exec.CommandContext(ctx, f.ffmpegPath,
		"-v", "error",
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.FormatFloat(fps, 'f', -1, 64),
		"-i", "-",
		"-c:v", "libvpx",
		"-pix_fmt", "yuv420p",
		"-f", "webm",
		path,
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin pipe: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg encoder: %w", err)
	}

	return &ffmpegWriter{
		cmd:    cmd,
		stdin:  stdin,
		stderr: &stderr,
	}, nil
}

type ffmpegWriter struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	closed bool
}

func (w *ffmpegWriter) WriteFrame(frame *image.RGBA) error {
	if _, err := w.stdin.Write(frame.Pix); err != nil {
		return fmt.Errorf("write frame: %w (%s)", err, strings.TrimSpace(w.stderr.String()))
	}
	return nil
}

// Close signals end of input and waits for the encoder to finish the file.
func (w *ffmpegWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg encoder: %w (%s)", err, strings.TrimSpace(w.stderr.String()))
	}
	return nil
}
