// Package config handles intcode.toml run configuration.
package config

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/intcode/cpu"
)

const (
	DEFAULT_DEPTH = 16 // Default output pipe depth.
)

// Config is a run configuration.
//
//	program = "day09.txt"
//	inputs = [1]
//	ascii = false
//
//	[patch]
//	0 = 2
type Config struct {
	Program string           `toml:"program"` // Program file, relative to Dir.
	Inputs  []int64          `toml:"inputs"`  // Values fed to the program.
	Ascii   bool             `toml:"ascii"`   // Use the ASCII tape on stdin and stdout.
	Verbose bool             `toml:"verbose"` // Enable verbose logging.
	Depth   int              `toml:"depth"`   // Output pipe depth.
	Patch   map[string]int64 `toml:"patch"`   // Address to value, applied at load.

	// Dir is the directory containing the configuration file (set at load time).
	Dir string `toml:"-"`
}

// Patch is a single word written over a loaded program.
type Patch struct {
	Addr  int64
	Value int64
}

// Decode parses a configuration. Unknown keys are an error.
func Decode(input io.Reader) (cfg *Config, err error) {
	cfg = &Config{}

	md, err := toml.NewDecoder(input).Decode(cfg)
	if err != nil {
		cfg = nil
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		cfg = nil
		err = ErrKeyUnknown(undecoded[0].String())
		return
	}

	if cfg.Depth <= 0 {
		cfg.Depth = DEFAULT_DEPTH
	}

	_, err = cfg.Patches()
	if err != nil {
		cfg = nil
		return
	}

	return
}

// Load reads a configuration file.
func Load(path string) (cfg *Config, err error) {
	file, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("cannot read %s: %w", path, err)
		return
	}
	defer file.Close()

	cfg, err = Decode(file)
	if err != nil {
		err = fmt.Errorf("parse error in %s: %w", path, err)
		return
	}

	cfg.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		cfg = nil
		err = fmt.Errorf("cannot resolve path %s: %w", path, err)
		return
	}

	return
}

// ProgramPath returns the program file path, resolved against Dir.
func (cfg *Config) ProgramPath() string {
	if cfg.Program == "" || cfg.Program == "-" || filepath.IsAbs(cfg.Program) {
		return cfg.Program
	}
	return filepath.Join(cfg.Dir, cfg.Program)
}

// ParsePatch parses an 'ADDR=VALUE' patch.
func ParsePatch(text string) (patch Patch, err error) {
	addr, value, ok := strings.Cut(text, "=")
	if !ok {
		err = ErrPatchSyntax
		return
	}

	return makePatch(addr, value)
}

func makePatch(addr string, value string) (patch Patch, err error) {
	patch.Addr, err = strconv.ParseInt(strings.TrimSpace(addr), 0, 64)
	if err != nil {
		err = cpu.ErrParseNumber(addr)
		return
	}
	if patch.Addr < 0 {
		err = ErrPatchAddress
		return
	}

	patch.Value, err = strconv.ParseInt(strings.TrimSpace(value), 0, 64)
	if err != nil {
		err = cpu.ErrParseNumber(value)
		return
	}

	return
}

// Patches returns the patch table in address order.
func (cfg *Config) Patches() (patches []Patch, err error) {
	for addr, value := range cfg.Patch {
		var patch Patch
		patch, err = makePatch(addr, strconv.FormatInt(value, 10))
		if err != nil {
			return
		}
		patches = append(patches, patch)
	}

	slices.SortFunc(patches, func(a, b Patch) int {
		return cmp.Compare(a.Addr, b.Addr)
	})

	return
}

// Apply pokes the patches into a program.
func Apply(prog *cpu.Program, patches ...Patch) {
	for _, patch := range patches {
		prog.Poke(patch.Addr, patch.Value)
	}
}
