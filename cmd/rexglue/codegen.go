package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rexlab/rexglue/codegen"
	"github.com/rexlab/rexglue/ppc"
)

// projectFile is the on-disk codegen configuration: emission settings plus
// the analyzed image description produced by the analysis front end.
type projectFile struct {
	Codegen json.RawMessage `json:"codegen"`

	Image struct {
		Path        string `json:"path"`
		BaseAddress uint32 `json:"base_address"`
		EntryPoint  uint32 `json:"entry_point"`

		Sections []struct {
			BaseAddress uint32 `json:"base_address"`
			Size        uint32 `json:"size"`
			Executable  bool   `json:"executable"`
		} `json:"sections"`
	} `json:"image"`

	Functions []struct {
		Base   uint32 `json:"base"`
		Size   uint32 `json:"size"`
		Name   string `json:"name"`
		Import bool   `json:"import"`

		Blocks []struct {
			Base uint32 `json:"base"`
			Size uint32 `json:"size"`
		} `json:"blocks"`

		JumpTables []struct {
			BctrAddress   uint32   `json:"bctr_address"`
			IndexRegister uint32   `json:"index_register"`
			Targets       []uint32 `json:"targets"`
		} `json:"jump_tables"`
	} `json:"functions"`
}

func newCodegenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "codegen <config.json>",
		Short: "Analyze an image description and generate C++ code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCodegen(args[0])
		},
	}
}

func runCodegen(configPath string) error {
	dis := ppc.RegisteredDisassembler()
	if dis == nil {
		return fmt.Errorf("no PPC disassembler registered; link a disassembler library into this binary")
	}

	cfg, err := codegen.LoadConfig(configPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}
	var project projectFile
	if err := json.Unmarshal(data, &project); err != nil {
		return fmt.Errorf("parsing project: %w", err)
	}

	imagePath := project.Image.Path
	if !filepath.IsAbs(imagePath) {
		imagePath = filepath.Join(filepath.Dir(configPath), imagePath)
	}
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	var sections []codegen.Section
	for _, s := range project.Image.Sections {
		sections = append(sections, codegen.Section{
			BaseAddress: s.BaseAddress,
			Size:        s.Size,
			Executable:  s.Executable,
		})
	}
	bin := codegen.NewImageBinary(project.Image.BaseAddress, image, sections...)

	graph := codegen.NewFunctionGraph(project.Image.EntryPoint)
	for _, f := range project.Functions {
		authority := codegen.AuthorityLocal
		if f.Import {
			authority = codegen.AuthorityImport
		}
		node := codegen.NewFunctionNode(f.Base, f.Size, f.Name, authority)
		var blocks []codegen.Block
		for _, b := range f.Blocks {
			blocks = append(blocks, codegen.Block{Base: b.Base, Size: b.Size})
		}
		node.SetBlocks(blocks)
		for _, jt := range f.JumpTables {
			node.AddJumpTable(codegen.JumpTable{
				BctrAddress:   jt.BctrAddress,
				IndexRegister: jt.IndexRegister,
				Targets:       jt.Targets,
			})
		}
		graph.Add(node)
	}

	if flagEnableExceptionHandlers {
		cfg.GenerateExceptionHandlers = true
	}
	if cfg.OutDirectoryPath == "" {
		cfg.OutDirectoryPath = filepath.Join(filepath.Dir(configPath), "generated")
	} else if !filepath.IsAbs(cfg.OutDirectoryPath) {
		cfg.OutDirectoryPath = filepath.Join(filepath.Dir(configPath), cfg.OutDirectoryPath)
	}

	rec := codegen.NewRecompiler(cfg, graph, bin, dis)
	if err := rec.Recompile(flagForce); err != nil {
		return err
	}
	logMain.Info("Generated %d files (%d unchanged) into %s",
		rec.Writer().Written(), rec.Writer().Skipped(), cfg.OutDirectoryPath)
	return nil
}
