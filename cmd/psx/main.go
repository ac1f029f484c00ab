package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	psx "github.com/user-none/go-chip-psx"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "psx",
		Short: "PSX CPU core — boot a BIOS image and run the interpreter",
	}

	var biosPath string
	var steps uint64
	var trace bool

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a BIOS image from the reset vector",
		RunE: func(cmd *cobra.Command, args []string) error {
			bios, err := os.ReadFile(biosPath)
			if err != nil {
				return fmt.Errorf("loading BIOS: %w", err)
			}

			mmu, err := psx.NewMMU(bios)
			if err != nil {
				return err
			}
			cpu := psx.New(mmu)

			for n := uint64(0); steps == 0 || n < steps; n++ {
				if trace {
					r := cpu.Registers()
					log.Printf("[psx] %10d PC=%08X", n, r.PC)
				}
				if err := cpu.Step(); err != nil {
					return fmt.Errorf("after %d instructions: %w", n, err)
				}
			}

			fmt.Printf("ran %d instructions, PC=%08X\n", steps, cpu.Registers().PC)
			return nil
		},
	}

	runCmd.Flags().StringVar(&biosPath, "bios", "PSXBIOS.bin", "path to the BIOS ROM image")
	runCmd.Flags().Uint64Var(&steps, "steps", 0, "stop after this many instructions (0 = run until a fault)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "log each executed PC")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
