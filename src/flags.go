package ccsds

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// Options shared by the command line programs.  Profile values are
// only overridden by options actually given on the command line.

type linkFlags struct {
	profile   *string
	depth     *int
	rs        *bool
	mix       *bool // interleave / deinterleave
	scramble  *bool
	dualBasis *bool
	verbose   *bool
	printing  *bool
	version   *bool
}

func addLinkFlags(mixName string) linkFlags {
	return linkFlags{
		profile:   pflag.StringP("profile", "c", "", "Mission profile YAML file.  Built in CCSDS defaults if not given."),
		depth:     pflag.IntP("depth", "I", 5, "Interleave depth, number of RS(255,223) blocks per frame."),
		rs:        pflag.Bool("rs", true, "Reed-Solomon coding.  Use --rs=false to disable."),
		mix:       pflag.Bool(mixName, true, "RS blocks are interleaved byte by byte."),
		scramble:  pflag.Bool("scramble", true, "Codeword is pseudo-randomized."),
		dualBasis: pflag.Bool("dual-basis", true, "RS symbols use the CCSDS dual basis representation."),
		verbose:   pflag.BoolP("verbose", "v", false, "Verbose.  Log state changes, per block results and counters."),
		printing:  pflag.BoolP("print", "p", false, "Hex dump every codeword.  Implies --verbose output."),
		version:   pflag.BoolP("version", "V", false, "Print version and exit."),
	}
}

func (f linkFlags) exitIfVersion() {
	if *f.version {
		fmt.Println(versionString(os.Args[0]))
		os.Exit(0)
	}
}

func (f linkFlags) loadProfile() Config {
	if *f.profile == "" {
		return DefaultConfig()
	}

	var cfg, err = LoadConfig(*f.profile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	return cfg
}

func (f linkFlags) applyDecoder(c *DecoderConfig) {
	if pflag.CommandLine.Changed("depth") {
		c.Depth = *f.depth
	}
	if pflag.CommandLine.Changed("rs") {
		c.RSDecode = *f.rs
	}
	// ccsds-loopback calls it "interleave" for both ends.
	if pflag.CommandLine.Changed("deinterleave") || pflag.CommandLine.Changed("interleave") {
		c.Deinterleave = *f.mix
	}
	if pflag.CommandLine.Changed("scramble") {
		c.Descramble = *f.scramble
	}
	if pflag.CommandLine.Changed("dual-basis") {
		c.DualBasis = *f.dualBasis
	}
	c.Printing = c.Printing || *f.printing
	c.Verbose = c.Verbose || *f.verbose || c.Printing
}

func (f linkFlags) applyEncoder(c *EncoderConfig) {
	if pflag.CommandLine.Changed("depth") {
		c.Depth = *f.depth
	}
	if pflag.CommandLine.Changed("rs") {
		c.RSEncode = *f.rs
	}
	if pflag.CommandLine.Changed("interleave") {
		c.Interleave = *f.mix
	}
	if pflag.CommandLine.Changed("scramble") {
		c.Scramble = *f.scramble
	}
	if pflag.CommandLine.Changed("dual-basis") {
		c.DualBasis = *f.dualBasis
	}
	c.Printing = c.Printing || *f.printing
	c.Verbose = c.Verbose || *f.verbose || c.Printing
}

// openInput treats "" and "-" as stdin.
func openInput(name string) (*os.File, error) {
	if name == "" || name == "-" {
		return os.Stdin, nil
	}
	return os.Open(name) //nolint:gosec
}
