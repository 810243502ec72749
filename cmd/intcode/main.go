// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	stdio "io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ezrec/intcode/config"
	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/emulator"
	"github.com/ezrec/intcode/io"
)

// loadProgram reads a program file, or standard input for "-".
func loadProgram(path string, verbose bool) (prog *cpu.Program, err error) {
	var input stdio.Reader = os.Stdin
	if path != "-" {
		var inf *os.File
		inf, err = os.Open(path)
		if err != nil {
			return
		}
		defer inf.Close()
		input = inf
	}

	prog, err = emulator.Load(path, input, verbose)
	return
}

// runAscii runs the program against the terminal, one byte per value.
func runAscii(computer *cpu.Computer) error {
	tape := &io.Tape{
		Input:  bufio.NewReader(os.Stdin),
		Output: os.Stdout,
	}

	return computer.Run(tape, tape)
}

// runDecimal runs the program with fixed inputs, printing each output
// on its own line as it is produced.
func runDecimal(computer *cpu.Computer, inputs []int64, depth int) error {
	rom := &io.Rom{Data: inputs}
	pipe := io.NewPipe(depth)

	var group errgroup.Group

	group.Go(func() error {
		return computer.Run(rom, pipe)
	})

	group.Go(func() (err error) {
		// Stops the computer if stdout goes away.
		defer pipe.Close()

		out := bufio.NewWriter(os.Stdout)
		for value := range io.Values(pipe) {
			_, err = out.WriteString(strconv.FormatInt(value, 10) + "\n")
			if err != nil {
				return
			}
		}
		return out.Flush()
	})

	return group.Wait()
}

func main() {
	var verbose bool

	var rootCmd = &cobra.Command{
		Use:   "intcode",
		Short: "Intcode computer, assembler and disassembler",
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	var inputs []int64
	var patches []string
	var ascii bool
	var configPath string
	var depth int

	var runCmd = &cobra.Command{
		Use:   "run [program]",
		Short: "Run a program until it halts",
		Long: `Run a program, given as comma-separated text or as .ics assembly.
Inputs come from --input, or from the terminal in --ascii mode.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := &config.Config{Depth: config.DEFAULT_DEPTH}
			if len(configPath) != 0 {
				var err error
				cfg, err = config.Load(configPath)
				if err != nil {
					log.Fatalf("%v: %v", configPath, err)
				}
			}

			if len(args) == 1 {
				cfg.Program = args[0]
				cfg.Dir = ""
			}
			if cmd.Flags().Changed("input") {
				cfg.Inputs = inputs
			}
			if cmd.Flags().Changed("depth") {
				cfg.Depth = depth
			}
			cfg.Ascii = cfg.Ascii || ascii
			cfg.Verbose = cfg.Verbose || verbose

			path := cfg.ProgramPath()
			if len(path) == 0 {
				log.Fatalf("%v: no program given", cmd.Name())
			}
			if path == "-" && cfg.Ascii {
				log.Fatalf("%v: cannot read both program and tape from stdin", cmd.Name())
			}

			table, err := cfg.Patches()
			if err != nil {
				log.Fatalf("%v: %v", configPath, err)
			}
			for _, text := range patches {
				patch, err := config.ParsePatch(text)
				if err != nil {
					log.Fatalf("--patch %v: %v", text, err)
				}
				table = append(table, patch)
			}

			prog, err := loadProgram(path, cfg.Verbose)
			if err != nil {
				log.Fatalf("%v: %v", path, err)
			}
			config.Apply(prog, table...)

			computer := cpu.NewComputerMemory(prog.Memory())
			computer.Verbose = cfg.Verbose

			if cfg.Ascii {
				err = runAscii(computer)
			} else {
				err = runDecimal(computer, cfg.Inputs, cfg.Depth)
			}
			if err != nil {
				log.Fatalf("%v: %v", path, emulator.Locate(prog, err))
			}

			if cfg.Verbose {
				log.Printf("%v: halted after %d ticks", path, computer.Ticks())
			}
		},
	}

	runCmd.Flags().Int64SliceVarP(&inputs, "input", "i", nil, "Input values, comma separated")
	runCmd.Flags().StringArrayVarP(&patches, "patch", "p", nil, "Patch ADDR=VALUE before running (repeatable)")
	runCmd.Flags().BoolVarP(&ascii, "ascii", "a", false, "ASCII tape on stdin and stdout")
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML run configuration")
	runCmd.Flags().IntVar(&depth, "depth", config.DEFAULT_DEPTH, "Output pipe depth")

	var output string

	var asmCmd = &cobra.Command{
		Use:   "asm <file.ics>",
		Short: "Assemble a program to comma-separated text",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			inf, err := os.Open(args[0])
			if err != nil {
				log.Fatalf("%v: %v", args[0], err)
			}
			defer inf.Close()

			asm := &cpu.Assembler{Verbose: verbose}
			prog, err := asm.Parse(inf)
			if err != nil {
				log.Fatalf("%v: %v", args[0], err)
			}

			var ouf stdio.Writer = os.Stdout
			if len(output) != 0 && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					log.Fatalf("%v: %v", output, err)
				}
				defer file.Close()
				ouf = file
			}

			err = prog.Marshal(ouf)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
		},
	}

	asmCmd.Flags().StringVarP(&output, "output", "o", "-", "Program text output")

	var disCmd = &cobra.Command{
		Use:   "dis [program]",
		Short: "Disassemble a program",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}

			prog, err := loadProgram(path, verbose)
			if err != nil {
				log.Fatalf("%v: %v", path, err)
			}

			out := bufio.NewWriter(os.Stdout)
			defer out.Flush()

			for ip, text := range cpu.Disassemble(prog.Binary()) {
				out.WriteString(strconv.FormatInt(ip, 10) + ":\t" + text + "\n")
			}
		},
	}

	rootCmd.AddCommand(runCmd, asmCmd, disCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
