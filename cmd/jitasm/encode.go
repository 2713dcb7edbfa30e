package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/colorfulnotion/x86jit/asmtext"
	"github.com/colorfulnotion/x86jit/cpu"
	log "github.com/colorfulnotion/x86jit/log"
	"github.com/colorfulnotion/x86jit/x86"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"
)

func newEncodeCmd(s *settings) *cobra.Command {
	var (
		file    string
		asJSON  bool
		codeHex bool
	)
	cmd := &cobra.Command{
		Use:   "encode [--file f] [line...]",
		Short: "Assemble Intel syntax lines and print the machine code",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := s.session(cmd)
			if err != nil {
				return err
			}
			src := strings.Join(args, "\n")
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				src = string(data) + "\n" + src
			}
			if strings.TrimSpace(src) == "" {
				return fmt.Errorf("nothing to encode: pass lines or --file")
			}
			code, err := asmtext.Assemble(src, sess.features, sess.opts)
			if err != nil {
				return err
			}
			log.Info(log.CLIMonitoring, "encoded", "bytes", len(code.Bytes), "labels", len(code.Labels), "relocations", len(code.Relocations))
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return writeJSON(out, code)
			case codeHex:
				fmt.Fprintln(out, code.Hex)
				return nil
			}
			printCode(out, code)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Source file, one instruction per line")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the finalized code as JSON")
	cmd.Flags().BoolVar(&codeHex, "hex", false, "Print only the hex bytes")
	return cmd
}

func newPadCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "pad N",
		Short: "Print N bytes of no-op padding for the configured vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("pad: %w", err)
			}
			sess, err := s.session(cmd)
			if err != nil {
				return err
			}
			a := x86.NewAssembler(sess.features, sess.opts)
			a.Nop(n)
			code, err := a.Finalize()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vendor %s, production %v\n", sess.features.Vendor(), sess.opts.Production)
			printCode(out, code)
			return nil
		},
	}
}

func newFeaturesCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "Print the feature set the encoder will use",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := s.session(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vendor: %s\n", sess.features.Vendor())
			fmt.Fprintf(out, "use_avx: %d\n", sess.opts.UseAVX)
			names := cpu.Names(sess.features)
			fmt.Fprintf(out, "features (%d): %s\n", len(names), strings.Join(names, " "))
			return nil
		},
	}
}

func writeJSON(w io.Writer, code *x86.Code) error {
	data, err := json.MarshalIndent(code, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func printCode(w io.Writer, code *x86.Code) {
	fmt.Fprintf(w, "%d bytes: %s\n", len(code.Bytes), code.Hex)
	if len(code.Bytes) > 0 {
		fmt.Fprint(w, x86.DisassembleCode(code))
	}
	if len(code.Labels) > 0 || len(code.Relocations) > 0 {
		fmt.Fprintln(w, codeTree(code).String())
	}
}

// codeTree renders labels and relocations as a tree rooted at the buffer.
func codeTree(code *x86.Code) treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("code (%d bytes)", len(code.Bytes)))
	if len(code.Labels) > 0 {
		labels := tree.AddBranch("labels")
		for _, l := range code.Labels {
			labels.AddMetaNode(fmt.Sprintf("0x%04x", l.Offset), l.Name)
		}
	}
	if len(code.Relocations) > 0 {
		relocs := tree.AddBranch("relocations")
		for _, r := range code.Relocations {
			b := relocs.AddMetaBranch(fmt.Sprintf("0x%04x", r.Offset), r.Kind.String())
			b.AddNode(fmt.Sprintf("format %s", r.Format))
			b.AddNode(fmt.Sprintf("instruction at 0x%04x", r.InstStart))
			b.AddNode(fmt.Sprintf("addend 0x%x", r.Addend))
		}
	}
	return tree
}
