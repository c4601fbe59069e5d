package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/resparse/pkg/resparse"
)

var segmentCmd = &cobra.Command{
	Use:   "segment [FILE]",
	Short: "Split a plain-text résumé into sections and print them as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return segmentText(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(segmentCmd)

	segmentCmd.Flags().Bool("keep-subheaders", false, "keep repeated section headers in the section text")
}

type sectionOut struct {
	Section string   `json:"section"`
	Lines   []string `json:"lines"`
}

func segmentText(cmd *cobra.Command, args []string) error {
	keep, _ := cmd.Flags().GetBool("keep-subheaders")
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	p, err := resparse.New(resparse.Options{KeepSubheaders: keep})
	if err != nil {
		return err
	}
	sections := p.Segment(strings.Split(string(text), "\n"))
	out := make([]sectionOut, 0, len(sections.Names()))
	for _, name := range sections.Names() {
		out = append(out, sectionOut{Section: name, Lines: sections.Lines(name)})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
