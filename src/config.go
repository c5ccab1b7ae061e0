package ccsds

/*------------------------------------------------------------------
 *
 * Purpose:	Mission profile configuration for the encoder and decoder.
 *
 * Description:	A profile is a small YAML file, for example:
 *
 *			decoder:
 *			  threshold: 4
 *			  rs_decode: true
 *			  deinterleave: true
 *			  descramble: true
 *			  depth: 5
 *			  dual_basis: true
 *			encoder:
 *			  rs_encode: true
 *			  interleave: true
 *			  scramble: true
 *			  depth: 5
 *			  dual_basis: true
 *			  idle: true
 *			  idle_gap: 250ms
 *			  asm_tail: false
 *
 *		Anything not mentioned keeps the value from DefaultConfig.
 *		Command line options are applied on top by the programs.
 *		The encoder and decoder take a copy at construction time
 *		and never look at it again.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math/bits"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type DecoderConfig struct {
	Threshold    int  `yaml:"threshold"`    // Max sync marker bit errors accepted.
	RSDecode     bool `yaml:"rs_decode"`    // Run the RS decoder on every block.
	Deinterleave bool `yaml:"deinterleave"` // Blocks are interleaved in the codeword.
	Descramble   bool `yaml:"descramble"`   // Codeword is pseudo-randomized.
	Verbose      bool `yaml:"verbose"`
	Printing     bool `yaml:"printing"` // Hex dump every codeword.
	Depth        int  `yaml:"depth"`    // Interleave depth, number of RS blocks.
	DualBasis    bool `yaml:"dual_basis"`
}

type EncoderConfig struct {
	RSEncode   bool          `yaml:"rs_encode"`
	Interleave bool          `yaml:"interleave"`
	Scramble   bool          `yaml:"scramble"`
	Idle       bool          `yaml:"idle"`     // Send fill frames when nothing is queued.
	IdleGap    time.Duration `yaml:"idle_gap"` // Minimum time between frames before a fill frame is sent.
	ASMTail    bool          `yaml:"asm_tail"` // Marker after the codeword instead of before.
	Printing   bool          `yaml:"printing"`
	Verbose    bool          `yaml:"verbose"`
	Depth      int           `yaml:"depth"`
	DualBasis  bool          `yaml:"dual_basis"`
}

type Config struct {
	Decoder DecoderConfig `yaml:"decoder"`
	Encoder EncoderConfig `yaml:"encoder"`
}

// The usual CCSDS telemetry setup: I=5, everything on.
func DefaultConfig() Config {
	return Config{
		Decoder: DecoderConfig{
			Threshold:    4,
			RSDecode:     true,
			Deinterleave: true,
			Descramble:   true,
			Depth:        5,
			DualBasis:    true,
		},
		Encoder: EncoderConfig{
			RSEncode:   true,
			Interleave: true,
			Scramble:   true,
			Depth:      5,
			DualBasis:  true,
		},
	}
}

// An all zero register is what the decoder starts from after every
// frame.  A threshold this large would lock onto it immediately.
var maxThreshold = bits.OnesCount32(SyncWord) - 1

func validDepth(depth int) bool {
	return depth >= 1 && depth <= MAX_INTERLEAVE
}

func (c DecoderConfig) Validate() error {
	if c.Threshold < 0 || c.Threshold > maxThreshold {
		return fmt.Errorf("%w: decoder threshold %d not in range 0 - %d", ErrInvalidConfig, c.Threshold, maxThreshold)
	}
	if !validDepth(c.Depth) {
		return fmt.Errorf("%w: decoder depth %d not in range 1 - %d", ErrInvalidConfig, c.Depth, MAX_INTERLEAVE)
	}
	return nil
}

func (c EncoderConfig) Validate() error {
	if !validDepth(c.Depth) {
		return fmt.Errorf("%w: encoder depth %d not in range 1 - %d", ErrInvalidConfig, c.Depth, MAX_INTERLEAVE)
	}
	if c.IdleGap < 0 {
		return fmt.Errorf("%w: negative idle gap %s", ErrInvalidConfig, c.IdleGap)
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Decoder.Validate(); err != nil {
		return err
	}
	return c.Encoder.Validate()
}

// ParseConfig overlays YAML data on DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	var cfg = DefaultConfig()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	var data, err = os.ReadFile(path) //nolint:gosec
	if err != nil {
		return Config{}, fmt.Errorf("reading profile %s: %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("profile %s: %w", path, err)
	}

	return cfg, nil
}
