package config

import (
	"flag"
	"os"
)

// parses CLI flags for the resume subcommand
func ParseResumeFlags() Flags {
	args := os.Args[2:]

	fs := flag.NewFlagSet("resume", flag.ExitOnError)
	path := fs.String("path", "", "path to an extracted-text resume file")
	filename := fs.String("filename", "", "display filename (defaults to the file's base name)")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{Path: *path, Filename: *filename}
}

// parses CLI flags for the job subcommand
func ParseJobFlags() Flags {
	args := os.Args[2:]

	fs := flag.NewFlagSet("job", flag.ExitOnError)
	path := fs.String("path", "", "path to an extracted-text job posting file")
	filename := fs.String("filename", "", "display filename (defaults to the file's base name)")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{Path: *path, Filename: *filename}
}

// parses CLI flags for the clear subcommand
func ParseClearFlags() Flags {
	args := os.Args[2:]

	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	clearFlag := fs.Bool("yes", false, "confirm removal of every stored document and chunk")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{Clear: *clearFlag}
}
