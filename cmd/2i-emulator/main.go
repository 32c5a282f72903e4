// The 2i-emulator command loads a microprogram for the Minirechner 2i
// and steps through it interactively.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/klemens/2i-emulator/cpu"
	"github.com/klemens/2i-emulator/emu"
	"github.com/klemens/2i-emulator/mem"
	"github.com/klemens/2i-emulator/parse"
)

var rootCmd = &cobra.Command{
	Use:   "2i-emulator [mikroprogramm]",
	Short: "Emulator für den Minirechner 2i",
	Long: "Emulator für den Minirechner 2i, GPLv3\n" +
		"https://github.com/klemens/2i-emulator",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var program *cpu.Program
		name := "-"
		if len(args) == 1 {
			var err error
			program, err = emu.LoadProgramFile(args[0])
			if err != nil {
				return fmt.Errorf("Fehler beim Laden des Programms: %w", err)
			}
			name = args[0]
		}

		machine := emu.NewMachine(mem.NewIoRegisters())
		return emu.Run(machine, program, name)
	},
}

var programCmd = &cobra.Command{
	Use:   "program <mikroprogramm>",
	Short: "Erreichbare Befehle eines Mikroprogramms anzeigen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("Die angegebene Datei konnte nicht geöffnet werden: %w", err)
		}
		defer file.Close()

		entries, err := parse.ReadReachableProgram(file)
		if err != nil {
			return fmt.Errorf("Das Mikroprogramm konnte nicht geladen werden: %w", err)
		}

		for _, entry := range entries {
			fmt.Printf("%05b: %-30s %s\n", entry.Address,
				entry.Instruction.Mnemonic(int(entry.Address)),
				entry.Instruction)
		}
		return nil
	},
}

func main() {
	log.SetReportTimestamp(false)

	rootCmd.AddCommand(programCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
