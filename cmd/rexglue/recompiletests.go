package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rexlab/rexglue/codegen"
	"github.com/rexlab/rexglue/ppc"
)

func newRecompileTestsCommand() *cobra.Command {
	var (
		binDir string
		asmDir string
		output string
	)

	cmd := &cobra.Command{
		Use:   "recompile-tests",
		Short: "Recompile linked PPC test binaries into runtime test units",
		RunE: func(cmd *cobra.Command, args []string) error {
			if binDir == "" || asmDir == "" || output == "" {
				return fmt.Errorf("--bin_dir, --asm_dir, and --output are required")
			}
			return recompileTests(binDir, asmDir, output)
		},
	}

	cmd.Flags().StringVar(&binDir, "bin_dir", "", "directory containing linked .bin files")
	cmd.Flags().StringVar(&asmDir, "asm_dir", "", "directory containing .s assembly source files")
	cmd.Flags().StringVar(&output, "output", "", "output path for generated tests")
	return cmd
}

// recompileTests runs codegen over every .bin in binDir, treating each as
// one function at the conventional test load address. The matching .s file
// must exist so failures point at real sources.
func recompileTests(binDir, asmDir, output string) error {
	dis := ppc.RegisteredDisassembler()
	if dis == nil {
		return fmt.Errorf("no PPC disassembler registered; link a disassembler library into this binary")
	}

	const testLoadAddress = 0x82000000

	entries, err := os.ReadDir(binDir)
	if err != nil {
		return err
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".bin") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".bin")

		if _, err := os.Stat(filepath.Join(asmDir, name+".s")); err != nil {
			logMain.Warn("Skipping %s: no matching assembly source", entry.Name())
			continue
		}

		image, err := os.ReadFile(filepath.Join(binDir, entry.Name()))
		if err != nil {
			return err
		}

		cfg := codegen.NewConfig()
		cfg.ProjectName = name
		cfg.OutDirectoryPath = filepath.Join(output, name)

		bin := codegen.NewImageBinary(testLoadAddress, image)
		graph := codegen.NewFunctionGraph(testLoadAddress)
		fn := codegen.NewFunctionNode(testLoadAddress, uint32(len(image)), name, codegen.AuthorityLocal)
		fn.SetBlocks([]codegen.Block{{Base: testLoadAddress, Size: uint32(len(image))}})
		graph.Add(fn)

		rec := codegen.NewRecompiler(cfg, graph, bin, dis)
		if err := rec.Recompile(flagForce); err != nil {
			return fmt.Errorf("recompiling %s: %w", name, err)
		}
		count++
	}

	if count == 0 {
		return fmt.Errorf("no test binaries found in %s", binDir)
	}
	logMain.Info("Recompiled %d test binaries into %s", count, output)
	return nil
}
