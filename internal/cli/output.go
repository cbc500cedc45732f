// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-wrss.
//
// go-wrss is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// RunReport is the outcome of one encrypt and threshold decrypt round.
type RunReport struct {
	Session                 string `json:"session" yaml:"session"`
	Lambda                  int    `json:"lambda" yaml:"lambda"`
	Scaling                 int    `json:"scaling" yaml:"scaling"`
	ModulusBits             []int  `json:"modulus_bits" yaml:"modulus_bits"`
	Quorum                  []int  `json:"quorum" yaml:"quorum"`
	QuorumWeight            int    `json:"quorum_weight" yaml:"quorum_weight"`
	ReconstructionThreshold int    `json:"reconstruction_threshold" yaml:"reconstruction_threshold"`
	PrivacyThreshold        int    `json:"privacy_threshold" yaml:"privacy_threshold"`
	Authorized              bool   `json:"authorized" yaml:"authorized"`
	Message                 string `json:"message" yaml:"message"`
	Recovered               string `json:"recovered,omitempty" yaml:"recovered,omitempty"`
	Offset                  int    `json:"offset" yaml:"offset"`
	Error                   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// CalibrationReport describes the moduli and masking bound for a scheme.
type CalibrationReport struct {
	Lambda         int    `json:"lambda" yaml:"lambda"`
	Scaling        int    `json:"scaling" yaml:"scaling"`
	FieldOrderBits int    `json:"field_order_bits" yaml:"field_order_bits"`
	ModulusBits    []int  `json:"modulus_bits" yaml:"modulus_bits"`
	PMinBits       int    `json:"p_min_bits" yaml:"p_min_bits"`
	PMaxBits       int    `json:"p_max_bits" yaml:"p_max_bits"`
	LowerBits      int    `json:"lower_bits" yaml:"lower_bits"`
	UpperBits      int    `json:"upper_bits" yaml:"upper_bits"`
	Feasible       bool   `json:"feasible" yaml:"feasible"`
	Error          string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ShareReport is one dealt share in hex.
type ShareReport struct {
	Index       int    `json:"index" yaml:"index"`
	Weight      int    `json:"weight" yaml:"weight"`
	ModulusBits int    `json:"modulus_bits" yaml:"modulus_bits"`
	Modulus     string `json:"modulus" yaml:"modulus"`
	Value       string `json:"value" yaml:"value"`
	Checksum    string `json:"checksum" yaml:"checksum"`
}

// DealReport is the public output of dealing one secret.
type DealReport struct {
	FieldOrder string        `json:"field_order" yaml:"field_order"`
	Scaling    int           `json:"scaling" yaml:"scaling"`
	Shares     []ShareReport `json:"shares" yaml:"shares"`
}

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(strings.ToLower(format)),
		writer: writer,
	}
}

// print encodes v for the structured formats and calls text otherwise.
func (p *Printer) print(v interface{}, text func()) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(v)
	case OutputFormatYAML:
		return p.printYAML(v)
	case OutputFormatText, "":
		text()
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintRun prints the outcome of a run
func (p *Printer) PrintRun(r *RunReport) error {
	return p.print(r, func() {
		fmt.Fprintf(p.writer, "Session:       %s\n", r.Session)
		fmt.Fprintf(p.writer, "Lambda:        %d\n", r.Lambda)
		fmt.Fprintf(p.writer, "Scaling:       %d\n", r.Scaling)
		fmt.Fprintf(p.writer, "Moduli bits:   %v\n", r.ModulusBits)
		fmt.Fprintf(p.writer, "Quorum:        %v (weight %d, T=%d, t=%d)\n",
			r.Quorum, r.QuorumWeight, r.ReconstructionThreshold, r.PrivacyThreshold)
		fmt.Fprintf(p.writer, "Authorized:    %t\n", r.Authorized)
		fmt.Fprintf(p.writer, "Message:       %s\n", r.Message)
		if r.Error != "" {
			fmt.Fprintf(p.writer, "Decryption:    failed (%s)\n", r.Error)
			return
		}
		fmt.Fprintf(p.writer, "Recovered:     %s\n", r.Recovered)
		fmt.Fprintf(p.writer, "Search offset: %d\n", r.Offset)
	})
}

// PrintCalibration prints a calibration report
func (p *Printer) PrintCalibration(r *CalibrationReport) error {
	return p.print(r, func() {
		fmt.Fprintf(p.writer, "Lambda:        %d\n", r.Lambda)
		fmt.Fprintf(p.writer, "Scaling:       %d\n", r.Scaling)
		fmt.Fprintf(p.writer, "Field order:   %d bits\n", r.FieldOrderBits)
		fmt.Fprintf(p.writer, "Moduli bits:   %v\n", r.ModulusBits)
		fmt.Fprintf(p.writer, "P_min:         %d bits\n", r.PMinBits)
		fmt.Fprintf(p.writer, "P_max:         %d bits\n", r.PMaxBits)
		fmt.Fprintf(p.writer, "Lower bound:   %d bits\n", r.LowerBits)
		fmt.Fprintf(p.writer, "Upper bound:   %d bits\n", r.UpperBits)
		fmt.Fprintf(p.writer, "Feasible:      %t\n", r.Feasible)
		if r.Error != "" {
			fmt.Fprintf(p.writer, "Error:         %s\n", r.Error)
		}
	})
}

// PrintDealing prints dealt shares
func (p *Printer) PrintDealing(r *DealReport) error {
	return p.print(r, func() {
		fmt.Fprintf(p.writer, "Field order: %s\n", r.FieldOrder)
		fmt.Fprintf(p.writer, "Scaling:     %d\n", r.Scaling)
		fmt.Fprintf(p.writer, "%-6s %-7s %-6s %s\n", "INDEX", "WEIGHT", "BITS", "VALUE")
		fmt.Fprintln(p.writer, strings.Repeat("-", 72))
		for _, s := range r.Shares {
			fmt.Fprintf(p.writer, "%-6d %-7d %-6d %s\n", s.Index, s.Weight, s.ModulusBits, s.Value)
		}
	})
}

// PrintVersion prints build information
func (p *Printer) PrintVersion(v *VersionInfo) error {
	return p.print(v, func() {
		fmt.Fprintf(p.writer, "wrss version %s\n", v.Version)
		fmt.Fprintf(p.writer, "Git commit: %s\n", v.Commit)
		fmt.Fprintf(p.writer, "Build date: %s\n", v.BuildDate)
		fmt.Fprintf(p.writer, "Go version: %s\n", v.GoVersion)
		fmt.Fprintf(p.writer, "OS/Arch: %s/%s\n", v.OS, v.Arch)
	})
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	return p.print(map[string]interface{}{
		"status":  "success",
		"message": message,
	}, func() {
		fmt.Fprintln(p.writer, message)
	})
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	return p.print(map[string]interface{}{
		"status": "error",
		"error":  err.Error(),
	}, func() {
		fmt.Fprintf(p.writer, "Error: %v\n", err)
	})
}

func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (p *Printer) printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(p.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}
