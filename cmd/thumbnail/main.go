package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"auto-thumbnail/internal/logging"
	"auto-thumbnail/internal/media"
	"auto-thumbnail/internal/mediatypes"
	"auto-thumbnail/internal/memory"
	"auto-thumbnail/internal/startup"
	"auto-thumbnail/thumbnailer"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	memory.ApplyFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	media.ShutdownVips()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "create":
		return runCreate(args[1:], stdout, stderr)
	case "batch":
		return runBatch(ctx, args[1:], stdout, stderr)
	case "formats":
		printFormats(stdout)
		return exitOK
	case "version":
		info := startup.GetBuildInfo()
		fmt.Fprintf(stdout, "thumbnail %s (commit %s, built %s, %s %s/%s)\n",
			info.Version, info.Commit, info.BuildTime, info.GoVersion, info.OS, info.Arch)
		return exitOK
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", sanitizeCommand(args[0]))
		printUsage(stderr)
		return exitUsage
	}
}

// sanitizeCommand returns a safe representation of a command string for display.
// It uses an allowlist approach, replacing any character that is not alphanumeric,
// a hyphen, or an underscore with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Thumbnail creation for images, PDFs and videos")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: thumbnail <command> [flags] [arguments]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  create <source> <output>          - Create one thumbnail")
	fmt.Fprintln(w, "  batch <source-dir> <output-dir>   - Thumbnail a directory tree")
	fmt.Fprintln(w, "  formats                           - List accepted inputs and outputs")
	fmt.Fprintln(w, "  version                           - Print build information")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  %s - Worker count for batch (default: GOMAXPROCS)\n", "THUMBNAIL_WORKERS")
	fmt.Fprintln(w, "  LOG_LEVEL         - debug, info, warn or error (default: info)")
}

// commonFlags are shared by create and batch.
type commonFlags struct {
	size       string
	quality    int
	noOptimize bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.size, "size", thumbnailer.SizeMedium.String(), "bounding box: preset name or WxH")
	fs.IntVar(&c.quality, "quality", thumbnailer.DefaultQuality, "lossy quality 1-100")
	fs.BoolVar(&c.noOptimize, "no-optimize", false, "skip the lossless PNG optimization pass")
}

func (c *commonFlags) newThumbnailer(opts ...thumbnailer.Option) (*thumbnailer.Thumbnailer, error) {
	size, err := thumbnailer.ParseSize(c.size)
	if err != nil {
		return nil, err
	}
	if c.noOptimize {
		opts = append(opts, thumbnailer.WithOptimizer(nil))
	}
	return thumbnailer.New(size, c.quality, opts...)
}

func runCreate(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("create", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var common commonFlags
	common.register(flags)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: thumbnail create [flags] <source> <output>")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return exitUsage
	}
	source, output := flags.Arg(0), flags.Arg(1)

	t, err := common.newThumbnailer()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	if err := t.CreateThumbnail(source, output); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	logging.Debug("created %s from %s", output, source)
	fmt.Fprintln(stdout, output)
	return exitOK
}

func printFormats(w io.Writer) {
	section := func(title string, mimes []string) {
		fmt.Fprintf(w, "%s:\n", title)
		for _, m := range mimes {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}
	section("Images", mediatypes.ImageMIMETypes)
	section("Videos (requires ffmpeg and ffprobe)", mediatypes.VideoMIMETypes)
	section("Documents (requires libvips with PDF support)", mediatypes.PDFMIMETypes)

	fmt.Fprintln(w, "Outputs:")
	for _, enc := range mediatypes.Encodings {
		fmt.Fprintf(w, "  %-5s %s\n", enc, enc.Extension())
	}

	fmt.Fprintln(w, "Sizes:")
	for _, size := range thumbnailer.Presets {
		fmt.Fprintf(w, "  %-7s %dx%d\n", size, size.Width, size.Height)
	}
}
