package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/tilecrop/internal/config"
	"github.com/ironsheep/tilecrop/internal/imaging"
	"github.com/ironsheep/tilecrop/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version":
			fmt.Printf("tilecrop %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage(os.Stdout)
			return
		case "rename":
			runRename(os.Args[2:])
			return
		}
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime)

	cfg, err := parseArgs(os.Args[1:], os.Getenv("TILECROP_LOG_LEVEL"))
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Verbose {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
		log.Printf("tilecrop v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if _, err := pipeline.New(cfg).Run(); err != nil {
		log.Fatalf("Run failed: %v", err)
	}
}

// parseArgs builds the run configuration: defaults, then the -config file, then
// any flags given explicitly on the command line.
func parseArgs(args []string, logLevel string) (config.Config, error) {
	fs := flag.NewFlagSet("tilecrop", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "YAML configuration file")
	source := fs.String("source", "", "directory of input photographs")
	output := fs.String("output", "", "existing directory for PNG patches")
	manifest := fs.String("manifest", "", "write a YAML manifest of written patches")
	preview := fs.String("preview", "", "existing directory for annotated previews")
	legacy := fs.Bool("legacy-centroid", false, "use the legacy squareness reference point")
	rawOrder := fs.Bool("raw-corner-order", false, "warp corners in detection order")
	verbose := fs.Bool("v", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}
	if fs.NArg() > 0 {
		return config.Config{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.SourceDir = *source
		case "output":
			cfg.OutputDir = *output
		case "manifest":
			cfg.ManifestPath = *manifest
		case "preview":
			cfg.PreviewDir = *preview
		case "legacy-centroid":
			cfg.LegacyCentroid = *legacy
		case "raw-corner-order":
			cfg.OrderCorners = !*rawOrder
		case "v":
			cfg.Verbose = *verbose
		}
	})
	if logLevel == "debug" {
		cfg.Verbose = true
	}

	return cfg, cfg.Validate()
}

func runRename(args []string) {
	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	dir := config.Default().SourceDir
	if len(args) > 0 {
		dir = args[0]
	}

	n, err := imaging.RenameSequential(dir, ".jpg", "PXL_")
	if err != nil {
		log.Fatalf("Rename failed after %d files: %v", n, err)
	}
	log.Printf("renamed %d files in %s", n, dir)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "tilecrop - extract rectified tile patches from photographs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tilecrop [options]")
	fmt.Fprintln(w, "  tilecrop rename [dir]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -config FILE         YAML configuration file")
	fmt.Fprintln(w, "  -source DIR          Input photographs (default ./andriods/)")
	fmt.Fprintln(w, "  -output DIR          Existing directory for patches (default ./training/)")
	fmt.Fprintln(w, "  -manifest FILE       Write a YAML manifest of written patches")
	fmt.Fprintln(w, "  -preview DIR         Existing directory for annotated previews")
	fmt.Fprintln(w, "  -legacy-centroid     Use the legacy squareness reference point")
	fmt.Fprintln(w, "  -raw-corner-order    Warp corners in detection order")
	fmt.Fprintln(w, "  -v                   Enable debug logging")
	fmt.Fprintln(w, "  --version            Print version information")
	fmt.Fprintln(w, "  --help, -h           Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  TILECROP_LOG_LEVEL=debug    Enable debug logging")
}
