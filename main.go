// Command vm executes a 256-byte program image, feeding it bytes from an
// input file and writing the bytes it emits to an output file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/InnProgress/virtual-machine/vm"
)

func main() {
	log.SetPrefix("vm: ")
	log.SetFlags(0)

	var (
		watchFlag = flag.Bool("watch", false, "re-run whenever the program or input file changes")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-watch] <program> <input> <output>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 3 {
		flag.Usage()
	}
	progFile, inFile, outFile := flag.Arg(0), flag.Arg(1), flag.Arg(2)

	if *watchFlag {
		if err := watchMode(progFile, inFile, outFile); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := startCPUProfile(prof)
		if err != nil {
			log.Fatal(err)
		}
		cpuProfile = f
	}

	term, err := run(progFile, inFile, outFile)

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(term)
}

// startCPUProfile creates name and starts writing a CPU profile to it.
func startCPUProfile(name string) (io.Closer, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("creating CPU profile file: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("starting CPU profile: %w", err)
	}
	return f, nil
}

// run loads the program and input, creates the output file and executes
// the program to completion. Nothing is executed if any file cannot be
// opened.
func run(progFile, inFile, outFile string) (vm.Termination, error) {
	rom, err := readProgram(progFile)
	if err != nil {
		return 0, fmt.Errorf("reading program: %w", err)
	}
	input, err := os.ReadFile(inFile)
	if err != nil {
		return 0, fmt.Errorf("reading input: %w", err)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return 0, fmt.Errorf("creating output: %w", err)
	}

	// Unbuffered, so each OUT reaches the file as it executes.
	term, err := vm.NewMachine(rom[:], input).Run(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing output: %w", cerr)
	}
	return term, err
}

// readProgram reads up to 256 bytes of name into a zero-filled image.
func readProgram(name string) (*[256]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rom [256]byte
	if _, err := io.ReadFull(f, rom[:]); err != nil &&
		!errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return &rom, nil
}
