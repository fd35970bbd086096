// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/devcpu/asm"
	"github.com/ezrec/devcpu/config"
	"github.com/ezrec/devcpu/dcpu"
	"github.com/ezrec/devcpu/internal"
	"github.com/ezrec/devcpu/logs"
)

var logger *slog.Logger

func fatal(msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}

// loadConfig reads the named project file, or devasm.cue if it exists.
func loadConfig(name string) (cfg config.Config, err error) {
	if len(name) == 0 {
		_, err = os.Stat(config.FILENAME)
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		name = config.FILENAME
	}
	return config.Load(name)
}

// relative returns path relative to root, in slash form.
func relative(root string, path string) (rel string, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	rel, err = filepath.Rel(root, abs)
	if err != nil {
		return
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		err = fmt.Errorf("%v is outside the workspace %v", path, root)
		return
	}
	rel = filepath.ToSlash(rel)
	return
}

func main() {
	var configFile string
	var output string
	var little bool
	var floppy bool
	var trim bool
	var labels bool
	var locals bool
	var listing bool
	var verbose bool
	var journal bool
	defines := map[string]string{}

	flag.StringVar(&configFile, "config", "", "Project file (default "+config.FILENAME+" if present)")
	flag.StringVar(&output, "o", "", "Image output (default source with .bin)")
	flag.BoolVar(&little, "le", false, "Write the image little endian")
	flag.BoolVar(&floppy, "floppy", false, "Assemble into a floppy sized image")
	flag.BoolVar(&trim, "trim", false, "Write only the assembled words")
	flag.BoolVar(&labels, "labels", false, "Print global label addresses")
	flag.BoolVar(&locals, "locals", false, "Include local labels with -labels")
	flag.BoolVar(&listing, "listing", false, "Print an assembly listing")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&journal, "journal", false, "Also log to the systemd journal")
	flag.Func("D", "Predefine KEY=VALUE", func(text string) error {
		key, value, _ := strings.Cut(text, "=")
		defines[key] = value
		return nil
	})

	flag.Parse()

	if verbose {
		logs.Level.Set(slog.LevelDebug)
	}
	logger = logs.New(logs.Options{Writer: os.Stderr, Journal: journal})

	if flag.NArg() != 1 {
		fatal("usage", "command", os.Args[0], "args", flag.Args())
	}
	source := flag.Arg(0)

	cfg, err := loadConfig(configFile)
	if err != nil {
		fatal("config", "error", err)
	}
	if little {
		cfg.ByteOrder = "little"
	}
	if floppy {
		cfg.ImageWords = dcpu.FLOPPY_WORDS
	}

	root, err := filepath.Abs(cfg.WorkspaceRoot)
	if err != nil {
		fatal("workspace", "error", err)
	}
	project, err := relative(root, cfg.ProjectRoot)
	if err != nil {
		fatal("project", "error", err)
	}
	name, err := relative(root, source)
	if err != nil {
		fatal("source", "error", err)
	}

	assembler := &asm.Assembler{
		Logger: logger,
		Source: &asm.FS{
			FS:            os.DirFS(root),
			ProjectRoot:   project,
			WorkspaceRoot: ".",
		},
		CaseFold:    !cfg.LabelsCaseSensitive,
		DefineLimit: cfg.DefineLimit,
	}
	for key, value := range internal.Concat2(maps.All(cfg.Defines), maps.All(defines)) {
		assembler.Predefine(key, value)
	}

	assembly, err := assembler.Load(name)
	if err != nil {
		if assembly != nil {
			for _, lexErr := range assembly.LexErrors {
				logger.Error("lex", "error", lexErr)
			}
			os.Exit(1)
		}
		fatal("assemble", "error", err)
	}

	img := dcpu.NewImage(cfg.ImageWords)
	err = assembly.Assemble(img)
	if err != nil {
		fatal("assemble", "error", err)
	}
	logger.Info("assembled", "source", name, "words", assembly.Size())

	if len(output) == 0 {
		output = strings.TrimSuffix(source, filepath.Ext(source)) + ".bin"
	}
	ouf, err := os.Create(output)
	if err != nil {
		fatal("output", "error", err)
	}
	defer ouf.Close()

	written := img
	if trim {
		written = &dcpu.Image{Words: img.Words[:min(assembly.Size(), img.Len())]}
	}
	_, err = written.Save(ouf, cfg.Order())
	if err != nil {
		fatal("output", "file", output, "error", err)
	}

	if labels {
		global := func(name string, _ int) bool {
			return locals || !strings.Contains(name, ".")
		}
		for name, offset := range internal.Filter2(assembly.Labels(), global) {
			fmt.Printf("%04x %v\n", offset, name)
		}
	}

	if listing {
		err = assembly.Listing(os.Stdout, img)
		if err != nil {
			fatal("listing", "error", err)
		}
	}
}
