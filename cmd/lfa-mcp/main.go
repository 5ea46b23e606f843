package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/joho/godotenv"

	"github.com/ironsheep/lateral-flow-mcp/internal/analysis"
	"github.com/ironsheep/lateral-flow-mcp/internal/config"
	"github.com/ironsheep/lateral-flow-mcp/internal/imaging"
	"github.com/ironsheep/lateral-flow-mcp/internal/logging"
	"github.com/ironsheep/lateral-flow-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "%s %s\n", server.Name, Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "--help", "-h", "help":
			printHelp(stdout)
			return 0
		}
	}

	// A missing .env is normal; a malformed one is not
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "failed to load .env: %v\n", err)
		return 1
	}

	log := logging.NewLogger("lfa-mcp")
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 1
	}

	if len(args) > 0 && args[0] == "analyze" {
		if len(args) < 2 {
			fmt.Fprintln(stderr, "usage: lfa-mcp analyze <photo>...")
			return 2
		}
		return analyzePhotos(cfg, log, args[1:], stdout)
	}

	server.Version = Version
	log.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	srv := server.New(server.WithConfig(cfg), server.WithLogger(log.Named("server")))
	if err := srv.Run(); err != nil {
		log.Error("server error", "error", err)
		return 1
	}
	return 0
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "lfa-mcp - MCP server for reading lateral-flow test cards")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lfa-mcp                     Serve MCP over stdin/stdout")
	fmt.Fprintln(w, "  lfa-mcp analyze <photo>...  Print one JSON report per photo")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables (also read from ./.env):")
	fmt.Fprintf(w, "  %s=debug    Enable debug logging\n", logging.LevelEnv)
	for _, name := range []string{
		config.EnvBlackThreshold,
		config.EnvRowStride,
		config.EnvRatioTolerance,
		config.EnvDedupDistance,
		config.EnvMaxDimension,
		config.EnvSwatchCount,
		config.EnvSpotCount,
		config.EnvMinGreenIncrement,
		config.EnvMaxGreenIncrementVariance,
		config.EnvMinControlSeparation,
	} {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configure the server in your MCP client (e.g., Claude Desktop).")
}

// photoReport is one line of analyze output.
type photoReport struct {
	Path string `json:"path"`
	*analysis.Report
	LoadError string `json:"load_error,omitempty"`
}

// analyzePhotos analyzes every photo concurrently and prints the reports in
// argument order. The exit status is 1 if any photo could not be loaded.
func analyzePhotos(cfg config.Config, log *logging.Logger, paths []string, w io.Writer) int {
	an := analysis.New(cfg, analysis.WithLogger(log.Named("analysis")))
	cache := imaging.NewImageCache()

	reports := make([]photoReport, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			reports[i].Path = path
			img, err := cache.Load(path)
			if err != nil {
				reports[i].LoadError = err.Error()
				return
			}
			reports[i].Report = an.AnalyzeImage(img)
		}(i, path)
	}
	wg.Wait()

	status := 0
	enc := json.NewEncoder(w)
	for _, r := range reports {
		if r.LoadError != "" {
			status = 1
		}
		if err := enc.Encode(r); err != nil {
			log.Error("failed to write report", "path", r.Path, "error", err)
			return 1
		}
	}
	return status
}
