package codegen

import (
	"encoding/json"
	"fmt"
	"os"
)

// MidAsmHook injects a host function call before or after the instruction
// at its configured address. The Registers list names the guest registers
// the hook takes by reference ("r3", "f1", "v0", "cr6", "ctr", "xer",
// "reserved", "fpscr"); the emitted extern declaration derives its
// parameter list from it.
type MidAsmHook struct {
	Name             string   `json:"name"`
	Registers        []string `json:"registers"`
	AfterInstruction bool     `json:"after_instruction"`

	Ret         bool   `json:"ret"`
	ReturnOnTrue  bool `json:"return_on_true"`
	ReturnOnFalse bool `json:"return_on_false"`

	JumpAddress        uint32 `json:"jump_address"`
	JumpAddressOnTrue  uint32 `json:"jump_address_on_true"`
	JumpAddressOnFalse uint32 `json:"jump_address_on_false"`
}

// returnsBool reports whether the hook's extern returns bool (branching
// hooks) rather than void.
func (h *MidAsmHook) returnsBool() bool {
	return h.ReturnOnFalse || h.ReturnOnTrue ||
		h.JumpAddressOnFalse != 0 || h.JumpAddressOnTrue != 0
}

// Config drives one codegen run.
type Config struct {
	ProjectName      string `json:"project_name"`
	OutDirectoryPath string `json:"out_directory_path"`

	SkipLr  bool `json:"skip_lr"`
	SkipMsr bool `json:"skip_msr"`

	CrRegistersAsLocalVariables          bool `json:"cr_registers_as_local_variables"`
	CtrAsLocalVariable                   bool `json:"ctr_as_local_variable"`
	XerAsLocalVariable                   bool `json:"xer_as_local_variable"`
	ReservedRegisterAsLocalVariable      bool `json:"reserved_register_as_local_variable"`
	NonArgumentRegistersAsLocalVariables bool `json:"non_argument_registers_as_local_variables"`
	NonVolatileRegistersAsLocalVariables bool `json:"non_volatile_registers_as_local_variables"`

	GenerateExceptionHandlers bool `json:"generate_exception_handlers"`

	// SwitchTables maps a bctr address to its manually configured jump
	// table. Late-detected tables are inserted here during emission.
	SwitchTables map[uint32]*JumpTable `json:"-"`

	// MidAsmHooks maps a guest address to its hook.
	MidAsmHooks map[uint32]*MidAsmHook `json:"-"`

	// Addresses of the title's setjmp/longjmp thunks; calls to them lower
	// to the native routines.
	SetJmpAddress  uint32 `json:"setjmp_address"`
	LongJmpAddress uint32 `json:"longjmp_address"`
}

// NewConfig returns a config with the maps initialised and the default
// project name.
func NewConfig() *Config {
	return &Config{
		ProjectName:  "rex",
		SwitchTables: make(map[uint32]*JumpTable),
		MidAsmHooks:  make(map[uint32]*MidAsmHook),
	}
}

type configFile struct {
	Config
	SwitchTables []struct {
		Address       uint32   `json:"address"`
		IndexRegister uint32   `json:"index_register"`
		Targets       []uint32 `json:"targets"`
	} `json:"switch_tables"`
	MidAsmHooks []struct {
		Address uint32 `json:"address"`
		MidAsmHook
	} `json:"mid_asm_hooks"`
}

// LoadConfig reads a JSON codegen configuration from disk.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var file configFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg := file.Config
	if cfg.ProjectName == "" {
		cfg.ProjectName = "rex"
	}
	cfg.SwitchTables = make(map[uint32]*JumpTable, len(file.SwitchTables))
	for _, st := range file.SwitchTables {
		cfg.SwitchTables[st.Address] = &JumpTable{
			BctrAddress:   st.Address,
			IndexRegister: st.IndexRegister,
			Targets:       st.Targets,
		}
	}
	cfg.MidAsmHooks = make(map[uint32]*MidAsmHook, len(file.MidAsmHooks))
	for _, h := range file.MidAsmHooks {
		hook := h.MidAsmHook
		cfg.MidAsmHooks[h.Address] = &hook
	}
	return &cfg, nil
}
