// Command thumbnail creates thumbnails from the command line.
//
// Usage:
//
//	thumbnail create [flags] <source> <output>
//	thumbnail batch [flags] <source-dir> <output-dir>
//	thumbnail formats
//	thumbnail version
//
// create writes one thumbnail. The output encoding follows the output
// file's extension (.png, .webp, .jpeg); anything else is written as JPEG.
//
// batch walks source-dir and writes a thumbnail for every file whose content
// is an image, PDF or video, mirroring the directory layout under
// output-dir. Work runs on a bounded pool sized from GOMAXPROCS, or from
// THUMBNAIL_WORKERS when set, and pauses while heap usage is above the
// memory limit's critical mark. Files whose thumbnail is already newer than
// the source are skipped unless -force is given.
//
// Flags common to create and batch:
//
//	-size         preset (icon, small, medium, large, larger) or WxH (default medium)
//	-quality      lossy quality 1-100 (default 90)
//	-no-optimize  skip the lossless PNG optimization pass
//
// The exit status is 0 on success, 1 when any thumbnail failed and 2 for
// usage errors.
package main
